//go:build headless

package ebitensim

// Run returns ErrHeadless: this build has no window system.
func (s *Sim) Run() error {
	return ErrHeadless
}
