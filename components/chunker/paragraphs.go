package chunker

import "github.com/bububa/textchunker/components/tokenizer"

type aggregator struct {
	counter       tokenizer.Counter
	budget        int
	headingBreaks bool
}

// aggregate greedily packs lines into chunks. A line is added to the current
// chunk unless that would push the chunk over budget, in which case the
// current chunk is emitted first. A line over budget on its own becomes a
// chunk of its own. With heading breaks a heading starts a new chunk, the
// pieces of a split heading stay together.
func (a *aggregator) aggregate(lines []Line) ([]Chunk, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	sepTokens, err := count(a.counter, Separator)
	if err != nil {
		return nil, err
	}
	var (
		chunks        []Chunk
		start         int
		currentTokens int
	)
	emit := func(end int) {
		chunks = append(chunks, Chunk{
			Text:      JoinLines(lines[start:end]),
			Lines:     lines[start:end:end],
			Tokens:    currentTokens,
			Index:     len(chunks),
			StartLine: start,
			EndLine:   end,
		})
		start = end
		currentTokens = 0
	}
	for i, line := range lines {
		if i > start && a.headingBreaks && line.Kind == HeaderMarkup && !line.Continued {
			emit(i)
		}
		added := line.Tokens
		if i > start && !line.Continued {
			added += sepTokens
		}
		if i > start && currentTokens+added > a.budget {
			emit(i)
			added = line.Tokens
		}
		currentTokens += added
	}
	emit(len(lines))
	return chunks, nil
}
