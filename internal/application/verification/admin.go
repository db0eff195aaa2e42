package verification

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// enrichLimit bounds concurrent Discord lookups during list enrichment.
const enrichLimit = 8

// AdminRecord is a verification record merged with live guild data for the
// admin table. Member is nil when enrichment failed; HasRecord is false in
// the membership-anchored mode for accounts holding roles without history.
type AdminRecord struct {
	Record    domain.VerificationRecord
	Member    *GuildMember
	HasRecord bool
}

// Stats is the admin dashboard aggregation. Student counts every non-alumni
// record, matching how the dashboard has always bucketed.
type Stats struct {
	Total   int `json:"total"`
	Student int `json:"student"`
	Alumni  int `json:"alumni"`
}

// ComputeStats is a pure aggregation over records.
func ComputeStats(records []domain.VerificationRecord) Stats {
	st := Stats{Total: len(records)}
	for _, r := range records {
		if r.Type == "alumni" {
			st.Alumni++
		} else {
			st.Student++
		}
	}
	return st
}

// ListVerifications returns all records (verified_at descending) enriched
// with live Discord profile and role data. Enrichment is best-effort: a
// failed lookup still yields the bare record. Read-only.
func (s *Service) ListVerifications(ctx context.Context) ([]AdminRecord, Stats, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, Stats{}, err
	}

	out := make([]AdminRecord, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, rec := range records {
		i, rec := i, rec
		out[i] = AdminRecord{Record: rec, HasRecord: true}
		if s.directory == nil {
			continue
		}
		g.Go(func() error {
			if m, err := s.directory.Member(gctx, rec.DiscordID); err == nil {
				out[i].Member = &m
				return nil
			}
			// Not in the guild anymore (or transient failure): fall back to
			// the bare profile, and to nothing if that fails too.
			if u, err := s.directory.User(gctx, rec.DiscordID); err == nil {
				out[i].Member = &u
			}
			return nil
		})
	}
	_ = g.Wait()

	return out, ComputeStats(records), nil
}

// ListByGuildMembership anchors on live guild members holding any catalog
// role and left-joins the records by account id. It surfaces accounts that
// hold roles without matching database history; for those, verified_at falls
// back to the guild join time. Read-only.
func (s *Service) ListByGuildMembership(ctx context.Context) ([]AdminRecord, Stats, error) {
	if s.directory == nil {
		return nil, Stats{}, domain.ErrInternal(nil)
	}
	members, err := s.directory.ListMembers(ctx)
	if err != nil {
		return nil, Stats{}, domain.ErrInternal(err)
	}
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, Stats{}, err
	}

	holders := members[:0:0]
	for _, m := range members {
		if s.holdsCatalogRole(m) {
			holders = append(holders, m)
		}
	}

	joined := JoinMembers(holders, records)
	return joined, ComputeStats(records), nil
}

func (s *Service) holdsCatalogRole(m GuildMember) bool {
	for _, r := range m.Roles {
		if s.catalog.Contains(r) {
			return true
		}
	}
	return false
}

// JoinMembers is the pure left-outer-join over already-fetched collections.
// Output is sorted by verified_at descending (join time for recordless rows)
// with account id as tiebreaker, so ordering is deterministic.
func JoinMembers(members []GuildMember, records []domain.VerificationRecord) []AdminRecord {
	byAccount := make(map[string]domain.VerificationRecord, len(records))
	for _, r := range records {
		byAccount[r.DiscordID] = r
	}

	out := make([]AdminRecord, 0, len(members))
	for _, m := range members {
		ar := AdminRecord{Member: &m}
		if rec, ok := byAccount[m.DiscordID]; ok {
			ar.Record = rec
			ar.HasRecord = true
		} else {
			ar.Record = domain.VerificationRecord{
				DiscordID:  m.DiscordID,
				VerifiedAt: m.JoinedAt,
			}
		}
		out = append(out, ar)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Record.VerifiedAt.Equal(out[j].Record.VerifiedAt) {
			return out[i].Record.VerifiedAt.After(out[j].Record.VerifiedAt)
		}
		return out[i].Record.DiscordID < out[j].Record.DiscordID
	})
	return out
}
