package normalizer

import (
	"propertyiq/internal/logger"
	"propertyiq/internal/models"
)

// Batch is the outcome of processing a list of raw records.
type Batch struct {
	Properties []models.Property
	Results    []Result
	Dropped    int
}

// Processor normalizes record batches and applies the validity gate.
type Processor struct {
	normalizer *Normalizer
	validator  *Validator
	logger     *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(n *Normalizer, v *Validator, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		normalizer: n,
		validator:  v,
		logger:     log,
	}
}

// Process normalizes every record and keeps those that pass validation, in input order.
// One bad record never aborts the batch.
func (p *Processor) Process(records []models.RawRecord, hints Hints) Batch {
	batch := Batch{
		Properties: make([]models.Property, 0, len(records)),
		Results:    make([]Result, 0, len(records)),
	}

	for i, record := range records {
		res := p.normalizer.NormalizeWithHints(record, hints)
		batch.Results = append(batch.Results, res)

		if err := p.validator.Validate(&res.Property); err != nil {
			batch.Dropped++
			p.logger.Debug("dropping record", "index", i, "id", res.Property.ID, "reason", err)

			continue
		}

		batch.Properties = append(batch.Properties, res.Property)
	}

	return batch
}
