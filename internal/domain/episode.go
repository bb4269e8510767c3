package domain

// Episode is the composed deliverable for one campaign day. It is derived
// from the datasets, never stored.
type Episode struct {
	Day       int
	Caption   string
	ImagePath string
	Actions   []Action
}
