package extract

// Extractor converts page bytes into a Document. Implementations must be
// deterministic so repeated runs produce identical corpora.
type Extractor interface {
	Extract(input []byte) Document
}

// HeuristicExtractor is the default Extractor backed by FromHTML.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(input []byte) Document {
	return FromHTML(input)
}
