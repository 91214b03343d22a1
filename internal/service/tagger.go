package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/ledgersift/internal/config"
	"github.com/jask/ledgersift/internal/database/repository"
)

// Tagger applies configured substring rules to transactions. Tags are a
// typed set stored in their own tables; rules never touch transfer flags.
type Tagger struct {
	Transactions *repository.TransactionRepo
	Tags         *repository.TagRepo
}

// Apply tags every transaction whose description contains a rule's match
// string (case-insensitive). Returns the number of tag attachments made.
func (s *Tagger) Apply(ctx context.Context, rules []config.TagRule) (int, error) {
	if len(rules) == 0 {
		return 0, nil
	}

	tagIDs := make(map[string]string, len(rules))
	for _, rule := range rules {
		existing, err := s.Tags.ByName(ctx, rule.Tag)
		if err != nil {
			return 0, fmt.Errorf("lookup tag %q: %w", rule.Tag, err)
		}
		if existing != nil {
			tagIDs[rule.Tag] = existing.ID
			continue
		}
		tag := repository.Tag{ID: uuid.NewString(), Name: rule.Tag}
		if err := s.Tags.Upsert(ctx, tag); err != nil {
			return 0, fmt.Errorf("create tag %q: %w", rule.Tag, err)
		}
		tagIDs[rule.Tag] = tag.ID
	}

	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{})
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	attached := 0
	for _, tx := range txs {
		desc := strings.ToLower(tx.Description)
		for _, rule := range rules {
			if !strings.Contains(desc, strings.ToLower(rule.Match)) {
				continue
			}
			if err := s.Tags.Attach(ctx, tx.ID, tagIDs[rule.Tag]); err != nil {
				return attached, fmt.Errorf("tag transaction %s: %w", tx.ID, err)
			}
			attached++
		}
	}
	return attached, nil
}
