package template

import (
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/parser"
)

// Publix receipts follow the generic line grammar closely, so the template
// currently delegates to the shared engine with the stock tables.
type Publix struct {
	engine *parser.Parser
}

func NewPublix(engine *parser.Parser) *Publix {
	if engine == nil {
		engine = parser.New(parser.Config{}, nil)
	}
	return &Publix{engine: engine}
}

func (p *Publix) StoreName() string { return "Publix" }

func (p *Publix) Keywords() []string {
	return []string{"publix", "where shopping is a pleasure"}
}

func (p *Publix) Parse(frags []entity.Fragment) entity.Receipt {
	return p.engine.ParseFragments(frags)
}
