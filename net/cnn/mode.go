package cnn

// Mode is the state of the tagger: Training tracks activations for Backward,
// Inference does not.
type Mode int

const (
	Training Mode = iota
	Inference
)

func (m Mode) String() string {
	switch m {
	case Training:
		return "training"
	case Inference:
		return "inference"
	}
	return "unknown"
}

// Mode reports the current mode.
func (t *Tagger) Mode() Mode {
	return t.mode
}

// Infer runs fn with the tagger in Inference mode and restores the previous
// mode when fn returns, fails or panics.
func (t *Tagger) Infer(fn func() error) error {
	prev := t.mode
	t.mode = Inference
	t.cache = nil
	defer func() {
		t.mode = prev
	}()
	return fn()
}
