package section

import (
	"strings"
	"time"

	"fjacquet/statement-csv/internal/csvreader"
	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/format"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/textutils"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"
)

// Config holds the read-only inputs of a Processor.
type Config struct {
	// Cardholders are the identities recognised in banner rows and
	// cardholder columns. Empty means format.DefaultCardholders.
	Cardholders []string
	// DefaultCardholder is used until a cardholder banner appears. Empty
	// means the first cardholder.
	DefaultCardholder string
	// Reference supplies cities, currency keywords and bank rules.
	Reference *models.Reference
	// Now is the clock for day-only dates. Nil means time.Now.
	Now func() time.Time
}

// Stats summarises one Process call for logging.
type Stats struct {
	Rows    int
	Dropped int
	Banners int
	Headers int
	Skipped int
}

// Processor turns a grid into normalized rows. It keeps no per-run state and
// may be shared between goroutines.
type Processor struct {
	identifier        *format.Identifier
	cardholders       []string
	defaultCardholder string
	dates             *dateutils.Normalizer
	currencies        *currencyutils.Resolver
	locations         *textutils.LocationExtractor
	logger            logging.Logger
}

// NewProcessor builds a Processor from cfg.
func NewProcessor(cfg Config, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.Default()
	}
	cardholders := cleanNames(cfg.Cardholders)
	if len(cardholders) == 0 {
		cardholders = format.DefaultCardholders
	}
	defaultCardholder := strings.TrimSpace(cfg.DefaultCardholder)
	if defaultCardholder == "" {
		defaultCardholder = cardholders[0]
	}

	ref := cfg.Reference
	if ref == nil {
		ref = &models.Reference{}
	}

	return &Processor{
		identifier:        format.NewIdentifier(cardholders, ref),
		cardholders:       cardholders,
		defaultCardholder: defaultCardholder,
		dates:             dateutils.NewNormalizer(cfg.Now),
		currencies:        currencyutils.NewResolver(ref.Currencies, ref.DefaultForeign),
		locations:         textutils.NewLocationExtractor(ref.Cities),
		logger:            logger,
	}
}

// Process walks grid once. bank is the hint passed to the format
// identifier for every header block.
func (p *Processor) Process(grid csvreader.Grid, bank string) ([]models.NormalizedRow, Stats) {
	machine := NewMachine(p.identifier, p.cardholders, p.defaultCardholder, bank)
	rows := make([]models.NormalizedRow, 0, len(grid))
	var stats Stats

	for i, row := range grid {
		t := machine.Step(row)

		switch t.Kind {
		case RowBlank:
			stats.Skipped++
		case RowBanner:
			stats.Banners++
			p.logger.Debug("Section banner",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldSection, string(machine.TransactionType())))
		case RowCardholder:
			p.logger.Debug("Cardholder switch",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldCardHolder, machine.CardHolder()))
		case RowHeader:
			stats.Headers++
			p.logger.Debug("Column header",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldState, t.To.String()),
				logging.F(logging.FieldColumns, machine.Columns().String()))
			if t.To == Consuming && !machine.Columns().HasAmount() {
				p.logger.Debug("Column header has no amount column", logging.F(logging.FieldRow, i))
			}
		case RowData:
			if !t.Emit {
				stats.Dropped++
				p.logger.Debug("Dropped row without date or amount", logging.F(logging.FieldRow, i))
				continue
			}
			rows = append(rows, p.normalize(row, machine))
		}
	}

	stats.Rows = len(rows)
	p.logger.Debug("Grid processed",
		logging.F(logging.FieldBank, bank),
		logging.F(logging.FieldCount, stats.Rows),
		logging.F(logging.FieldDropped, stats.Dropped))
	return rows, stats
}

func (p *Processor) normalize(row []string, m *Machine) models.NormalizedRow {
	cols := m.Columns()
	description := csvreader.CellAt(row, cols.Description)
	txType := p.transactionType(row, cols, m.TransactionType())

	out := models.NormalizedRow{
		Date:            p.dates.Normalize(csvreader.CellAt(row, cols.Date)),
		Description:     description,
		Debit:           p.amount("debit", row, cols.Debit),
		Credit:          p.amount("credit", row, cols.Credit),
		CardName:        p.cardHolder(row, cols, m.CardHolder()),
		TransactionType: txType,
	}

	if code, ok := currencyutils.FromCode(csvreader.CellAt(row, cols.Currency)); ok {
		out.Currency = code
	} else {
		out.Currency = p.currencies.Resolve(txType, description)
	}

	if loc := strings.TrimSpace(csvreader.CellAt(row, cols.Location)); loc != "" {
		out.Location = loc
	} else {
		out.Location = p.locations.Extract(description)
	}
	return out
}

// amount reads the first candidate cell that parses. When none does, the
// first non-empty cell is reported and the field stays empty.
func (p *Processor) amount(field string, row []string, candidates []int) decimal.NullDecimal {
	var firstErr error
	var firstCell string
	for _, idx := range candidates {
		cell := strings.TrimSpace(csvreader.CellAt(row, idx))
		if cell == "" {
			continue
		}
		value, err := currencyutils.ParseAmountStrict(cell)
		if err == nil {
			return models.NewAmount(value)
		}
		if firstErr == nil {
			firstErr, firstCell = err, cell
		}
	}
	if firstErr != nil {
		p.logger.WithError(&parsererror.ParseError{Field: field, Value: firstCell, Err: firstErr}).
			Debug("Unparseable amount, leaving it empty")
	}
	return decimal.NullDecimal{}
}

// transactionType lets a type column override the running section.
func (p *Processor) transactionType(row []string, cols format.ColumnMap, running models.TransactionType) models.TransactionType {
	cell := strings.ToLower(FirstNonEmpty(row, cols.TransactionType))
	switch {
	case strings.Contains(cell, "international"):
		return models.International
	case strings.Contains(cell, "domestic"):
		return models.Domestic
	}
	return running
}

// cardHolder lets a cardholder column override the running cardholder when
// its cell names a known identity. Exact matches win, then the closest
// fuzzy match.
func (p *Processor) cardHolder(row []string, cols format.ColumnMap, running string) string {
	cell := FirstNonEmpty(row, cols.CardName)
	if cell == "" {
		return running
	}
	best, bestRank := "", -1
	for _, name := range p.cardholders {
		if strings.EqualFold(name, cell) {
			return name
		}
		rank := fuzzy.RankMatchNormalizedFold(name, cell)
		if rank >= 0 && (bestRank < 0 || rank < bestRank) {
			best, bestRank = name, rank
		}
	}
	if best != "" {
		return best
	}
	return running
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
