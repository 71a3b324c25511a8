package gpu

import (
	"time"

	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"
)

// Encoder records GPU commands for one submission.
type Encoder struct {
	dev     *Device
	encoder hal.CommandEncoder
}

// NewEncoder creates a command encoder and begins recording.
func (d *Device) NewEncoder(label string) (*Encoder, error) {
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, errors.Wrap(err, "create command encoder")
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, errors.Wrap(err, "begin encoding")
	}
	return &Encoder{dev: d, encoder: enc}, nil
}

// Hal returns the underlying hal encoder for pass recording.
func (e *Encoder) Hal() hal.CommandEncoder { return e.encoder }

// Submit ends recording, submits the commands and blocks until the GPU has
// executed them or the timeout elapses. The Encoder must not be reused
// afterwards.
func (e *Encoder) Submit(timeout time.Duration) error {
	cmdBuf, err := e.encoder.EndEncoding()
	if err != nil {
		return errors.Wrap(err, "end encoding")
	}
	defer e.dev.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.dev.device.CreateFence()
	if err != nil {
		return errors.Wrap(err, "create fence")
	}
	defer e.dev.device.DestroyFence(fence)

	if err := e.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return errors.Wrap(err, "submit")
	}
	ok, err := e.dev.device.Wait(fence, 1, timeout)
	if err != nil {
		return errors.Wrap(err, "wait for GPU")
	}
	if !ok {
		return errors.New("GPU fence timeout")
	}
	return nil
}

// Discard abandons the recorded commands without submitting them.
func (e *Encoder) Discard() {
	e.encoder.DiscardEncoding()
}
