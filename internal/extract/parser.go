package extract

import (
	"go.uber.org/zap"
)

// Parser runs the extraction strategies in priority order: whole-text JSON,
// embedded JSON block, HTML heuristics. First usable result wins. Recovered
// fields are passed through CleanCode before they land in the artifact.
//
// Parsing is a pure function over in-memory text; a Parser is safe for
// concurrent use.
type Parser struct {
	logger     *zap.Logger
	strategies []strategy
}

// NewParser builds a parser with the default strategy chain.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		logger: logger,
		strategies: []strategy{
			jsonStrategy{},
			embeddedJSONStrategy{},
			htmlStrategy{},
		},
	}
}

// Parse recovers the artifact triple from raw model output. It returns
// *UnparseableError only when every strategy yields nothing usable; a
// malformed embedded block is logged as a soft event and the chain falls
// through to the next strategy.
func (p *Parser) Parse(raw string) (ParsedOutput, error) {
	for _, s := range p.strategies {
		res := s.attempt(raw)
		switch res.status {
		case statusMalformed:
			p.logger.Warn("extraction strategy found a candidate block but could not parse it",
				zap.String("strategy", s.name()),
				zap.Error(res.err))
		case statusMatch:
			a := Artifact{
				Markup:     CleanCode(res.artifact.Markup),
				Stylesheet: CleanCode(res.artifact.Stylesheet),
				Script:     CleanCode(res.artifact.Script),
			}
			if a.Empty() {
				// Cleanup stripped everything the strategy found (a field
				// holding only comments or fences). Treat as no match.
				p.logger.Debug("strategy match emptied by cleanup, falling through",
					zap.String("strategy", s.name()))
				continue
			}
			p.logger.Debug("extraction strategy matched", zap.String("strategy", s.name()))
			return ParsedOutput{Artifact: a, Strategy: s.name()}, nil
		}
	}
	return ParsedOutput{}, newUnparseableError(raw)
}
