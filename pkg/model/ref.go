package model

// BaseRef is the assumed starting point of a transaction: a branch name
// and the commit its pointer held when read.
type BaseRef struct {
	Branch string `yaml:"branch" json:"branch"`
	Commit Hash   `yaml:"commit" json:"commit"`
}
