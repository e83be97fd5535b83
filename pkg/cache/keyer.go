package cache

// ConsensusKeyOpts holds the options that change a consensus result.
type ConsensusKeyOpts struct {
	Translate bool   // Element table supplied
	Counting  string // Count mode name
}

// DocumentKeyOpts holds the options that change a rendered document.
type DocumentKeyOpts struct {
	Form     string // "full" or "shorter"
	Author   string
	LabelSep string
}

// Keyer generates cache keys from a graph hash and the options that affect
// the cached value.
type Keyer interface {
	// ConsensusKey returns the key for a consensus labelling.
	ConsensusKey(graphHash string, opts ConsensusKeyOpts) string

	// DocumentKey returns the key for a rendered graph document.
	DocumentKey(graphHash string, opts DocumentKeyOpts) string
}

// DefaultKeyer hashes the graph hash and options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ConsensusKey implements Keyer.
func (DefaultKeyer) ConsensusKey(graphHash string, opts ConsensusKeyOpts) string {
	return hashKey("consensus", graphHash, opts)
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(graphHash string, opts DocumentKeyOpts) string {
	return hashKey("document", graphHash, opts)
}
