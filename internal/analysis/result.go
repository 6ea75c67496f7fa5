package analysis

// UnknownDocumentType is the classification used when the oracle cannot
// determine what kind of document it is looking at.
const UnknownDocumentType = "unknown"

// MaxSummaryBullets caps the executive summary length, both on the wire and
// after consolidation.
const MaxSummaryBullets = 10

// DateEntry is a labeled date extracted from a document. Value holds an ISO
// date (YYYY-MM-DD) when unambiguous, otherwise the literal text.
type DateEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AmountEntry is an economic figure with context. Value and Currency are nil
// when the oracle could not extract them.
type AmountEntry struct {
	Concept  string   `json:"concept"`
	Value    *float64 `json:"value"`
	Currency *string  `json:"currency"`
}

// Result is the single structured record extracted from a document (or from
// one chunk of it). It carries the eight content categories plus diagnostic
// notes and a heuristic confidence score.
//
// Result is treated as an immutable value throughout the pipeline: the
// normalizer and consolidator always return new values and never mutate
// their inputs. Use Clone before modifying a Result you do not own.
type Result struct {
	DocumentType   string       `json:"document_type"`
	Parties        []string     `json:"parties"`
	Dates          []DateEntry  `json:"dates"`
	Amounts        []AmountEntry `json:"amounts"`
	Obligations    []string     `json:"obligations"`
	Rights         []string     `json:"rights"`
	Risks          []string     `json:"risks"`
	SummaryBullets []string     `json:"summary_bullets"`
	Notes          []string     `json:"notes"`
	Confidence     float64      `json:"confidence"`
}

// ContentCategories counts how many of the eight content categories carry
// data. DocumentType counts when it is anything other than "unknown".
func (r Result) ContentCategories() int {
	n := 0
	for _, filled := range []bool{
		len(r.Parties) > 0,
		len(r.Dates) > 0,
		len(r.Amounts) > 0,
		len(r.Obligations) > 0,
		len(r.Rights) > 0,
		len(r.Risks) > 0,
		len(r.SummaryBullets) > 0,
		r.DocumentType != "" && r.DocumentType != UnknownDocumentType,
	} {
		if filled {
			n++
		}
	}
	return n
}

// ListCategories counts the seven list-valued categories that carry data.
// This is the consolidation weight; DocumentType is not weighed.
func (r Result) ListCategories() int {
	n := 0
	for _, filled := range []bool{
		len(r.Parties) > 0,
		len(r.Dates) > 0,
		len(r.Amounts) > 0,
		len(r.Obligations) > 0,
		len(r.Rights) > 0,
		len(r.Risks) > 0,
		len(r.SummaryBullets) > 0,
	} {
		if filled {
			n++
		}
	}
	return n
}

// IsComplete reports whether at least half of the content categories carry
// data.
func (r Result) IsComplete() bool {
	return r.ContentCategories() >= 4
}

// Clone returns a deep copy of the result. Slice fields never alias the
// receiver's backing arrays, so the copy can be modified freely.
func (r Result) Clone() Result {
	out := r
	out.Parties = cloneStrings(r.Parties)
	out.Obligations = cloneStrings(r.Obligations)
	out.Rights = cloneStrings(r.Rights)
	out.Risks = cloneStrings(r.Risks)
	out.SummaryBullets = cloneStrings(r.SummaryBullets)
	out.Notes = cloneStrings(r.Notes)

	if r.Dates != nil {
		out.Dates = make([]DateEntry, len(r.Dates))
		copy(out.Dates, r.Dates)
	}
	if r.Amounts != nil {
		out.Amounts = make([]AmountEntry, len(r.Amounts))
		for i, a := range r.Amounts {
			c := a
			if a.Value != nil {
				v := *a.Value
				c.Value = &v
			}
			if a.Currency != nil {
				cur := *a.Currency
				c.Currency = &cur
			}
			out.Amounts[i] = c
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
