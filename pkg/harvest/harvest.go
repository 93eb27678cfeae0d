package harvest

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/japaniel/paradigm/pkg/db"
)

// Candidate is a distinct dictionary form found in a text.
type Candidate struct {
	Term string
	// Reading is in hiragana, empty when the term was only seen inflected.
	Reading      string
	PartOfSpeech string
	// Count is the number of occurrences in the text.
	Count int
}

// Candidates returns the distinct base forms of tokens whose primary part
// of speech is in pos, in order of first appearance. An empty pos accepts
// every part of speech except symbols.
func Candidates(sentences []Sentence, pos []string) []Candidate {
	accept := make(map[string]bool, len(pos))
	for _, p := range pos {
		accept[p] = true
	}
	index := make(map[string]int)
	var out []Candidate
	for _, s := range sentences {
		for _, tok := range s.Tokens {
			if len(accept) > 0 && !accept[tok.PrimaryPOS] {
				continue
			}
			if len(accept) == 0 && tok.PrimaryPOS == "記号" {
				continue
			}
			if i, ok := index[tok.BaseForm]; ok {
				out[i].Count++
				if out[i].Reading == "" && !tok.Inflected() {
					out[i].Reading = Hiragana(tok.Reading)
				}
				continue
			}
			c := Candidate{Term: tok.BaseForm, PartOfSpeech: tok.PrimaryPOS, Count: 1}
			// The reading belongs to the surface, so only keep it when the
			// surface is the dictionary form.
			if !tok.Inflected() {
				c.Reading = Hiragana(tok.Reading)
			}
			index[tok.BaseForm] = len(out)
			out = append(out, c)
		}
	}
	return out
}

// Harvester stores the lemmas found in a text.
type Harvester struct {
	DB       *sql.DB
	Analyzer *Analyzer
	// Language is stored with every lemma.
	Language string
	// POS restricts harvested lemmas to these primary parts of speech.
	POS []string
	// TableID, when positive, attaches every harvested lemma to that table.
	TableID int64
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// Result summarizes a harvest.
type Result struct {
	Sentences  int
	Candidates []Candidate
	LemmaIDs   []int64
}

// Harvest analyzes text and stores every candidate lemma in one transaction.
func (h *Harvester) Harvest(ctx context.Context, text string) (*Result, error) {
	if h.Analyzer == nil {
		return nil, fmt.Errorf("harvester has no analyzer")
	}
	sentences := h.Analyzer.AnalyzeDocument(text)
	cands := Candidates(sentences, h.POS)
	res := &Result{Sentences: len(sentences), Candidates: cands}
	if len(cands) == 0 {
		return res, nil
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin harvest: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := db.CreateOrGetLemma(tx, c.Term, h.Language, c.Reading, c.PartOfSpeech)
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", c.Term, err)
		}
		if h.TableID > 0 {
			if err := db.AssignLemmaTable(tx, id, h.TableID); err != nil {
				return nil, fmt.Errorf("attach %q: %w", c.Term, err)
			}
		}
		res.LemmaIDs = append(res.LemmaIDs, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit harvest: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Printf("harvested %d lemmas from %d sentences", len(res.LemmaIDs), res.Sentences)
	}
	return res, nil
}
