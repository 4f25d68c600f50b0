package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

type release struct {
	name    string
	destroy func()
}

// releaseStack records every Vulkan object as it is created so teardown
// can run in exactly the reverse order.
type releaseStack struct {
	entries []release
}

func (s *releaseStack) push(name string, destroy func()) {
	s.entries = append(s.entries, release{name: name, destroy: destroy})
}

func (s *releaseStack) len() int { return len(s.entries) }

// releaseAll destroys everything, newest first, and empties the stack.
func (s *releaseStack) releaseAll(log *gamelog.Logger) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		log.Debug("destroying", "object", e.name)
		e.destroy()
	}
	s.entries = nil
}

// teardown waits for the device to go idle and then releases the stack.
// Objects are destroyed even when the idle wait fails; the wait error is
// returned.
func teardown(waitIdle func() error, stack *releaseStack, log *gamelog.Logger) error {
	var err error
	if waitIdle != nil {
		if err = waitIdle(); err != nil {
			err = errors.Wrap(err, "wait for device idle before teardown")
			log.Error(err.Error())
		}
	}
	stack.releaseAll(log)
	return err
}
