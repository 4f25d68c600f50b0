// Package shaders loads the two SPIR-V binaries the triangle pipeline is
// built from. The binaries generated from glsl/ are embedded; a directory on
// disk can replace them.
package shaders

//go:generate glslc glsl/shader.vert -o spv/vert.spv
//go:generate glslc glsl/shader.frag -o spv/frag.spv

import (
	"context"
	"embed"
	"encoding/binary"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const (
	VertexFile   = "vert.spv"
	FragmentFile = "frag.spv"

	spirvMagic = 0x07230203
)

var ErrInvalidSPIRV = errors.New("invalid SPIR-V binary")

//go:embed spv/*.spv
var embedded embed.FS

// Set is a vertex and fragment shader pair, held fully in memory.
type Set struct {
	Vertex   []byte
	Fragment []byte
}

// Builtin returns the shaders compiled into the binary.
func Builtin(ctx context.Context) (*Set, error) {
	sub, err := fs.Sub(embedded, "spv")
	if err != nil {
		return nil, errors.Wrap(err, "embedded shaders")
	}
	return LoadFS(ctx, sub)
}

// Load reads dir/vert.spv and dir/frag.spv. An empty dir selects the
// embedded shaders.
func Load(ctx context.Context, dir string) (*Set, error) {
	if dir == "" {
		return Builtin(ctx)
	}
	set, err := LoadFS(ctx, os.DirFS(dir))
	if err != nil {
		return nil, errors.Wrapf(err, "shader directory %s", dir)
	}
	return set, nil
}

// LoadFS reads vert.spv and frag.spv from the root of fsys. Both files must
// exist and carry a SPIR-V header.
func LoadFS(ctx context.Context, fsys fs.FS) (*Set, error) {
	set := &Set{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		set.Vertex, err = readBinary(fsys, VertexFile)
		return err
	})
	g.Go(func() error {
		var err error
		set.Fragment, err = readBinary(fsys, FragmentFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func readBinary(fsys fs.FS, path string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read shader %s", path)
	}
	if err := Validate(b); err != nil {
		return nil, errors.Wrapf(err, "shader %s", path)
	}
	return b, nil
}

// Validate checks that b is word aligned and starts with the SPIR-V magic
// number.
func Validate(b []byte) error {
	if len(b) == 0 || len(b)%4 != 0 {
		return errors.Wrapf(ErrInvalidSPIRV, "length %d is not a positive multiple of 4", len(b))
	}
	if magic := binary.LittleEndian.Uint32(b); magic != spirvMagic {
		return errors.Wrapf(ErrInvalidSPIRV, "bad magic number 0x%08x", magic)
	}
	return nil
}

// VertexCode returns the vertex binary as SPIR-V words.
func (s *Set) VertexCode() []uint32 { return bytesToBytecode(s.Vertex) }

// FragmentCode returns the fragment binary as SPIR-V words.
func (s *Set) FragmentCode() []uint32 { return bytesToBytecode(s.Fragment) }

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteCode[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return byteCode
}
