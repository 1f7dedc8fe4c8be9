package consensus

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"soncore/internal/domain/optimize"
)

var (
	ErrNoProposals = errors.New("no proposals to vote on")
)

type Mechanism string

const (
	MechanismWeighted  Mechanism = "weighted"
	MechanismUnanimous Mechanism = "unanimous"
	MechanismSimple    Mechanism = "simple"
)

type Config struct {
	// Threshold is the approval percentage (0..100) a proposal must
	// clear to be approved.
	Threshold float64
	Mechanism Mechanism
}

// Decision is the outcome of one consensus round.
type Decision struct {
	Approved bool                     `json:"approved"`
	Winning  *optimize.Proposal       `json:"winning,omitempty"`
	Result   optimize.ConsensusResult `json:"result"`
	Reason   string                   `json:"reason"`
}

// Builder collects weighted votes from a panel of agents over competing
// proposals and decides whether the top-ranked one is approved. The only
// state it keeps is the most recent result per proposal id.
type Builder struct {
	cfg    Config
	agents []optimize.VotingAgent
	now    func() time.Time

	mu        sync.Mutex
	recent    map[string]optimize.ConsensusResult
	observers []Observer
}

func NewBuilder(cfg Config, agents []optimize.VotingAgent) *Builder {
	if len(agents) == 0 {
		agents = DefaultPanel()
	}
	return &Builder{
		cfg:    cfg,
		agents: agents,
		now:    time.Now,
		recent: make(map[string]optimize.ConsensusResult),
	}
}

// appliedThreshold is the bar a tally must clear for consensus to be
// "reached"; approval additionally requires the configured threshold.
func (b *Builder) appliedThreshold() float64 {
	switch b.cfg.Mechanism {
	case MechanismUnanimous:
		return 100
	case MechanismWeighted:
		return b.cfg.Threshold
	default:
		relaxed := b.cfg.Threshold * 0.8
		if relaxed < 50 {
			return 50
		}
		return relaxed
	}
}

// Decide runs one consensus round. Proposals are re-ranked by
// impact x confidence; every agent casts exactly one vote per proposal,
// and the decision is made on the top-ranked one. An empty proposal
// list is a hard error.
func (b *Builder) Decide(proposals []optimize.Proposal) (Decision, error) {
	if len(proposals) == 0 {
		return Decision{}, ErrNoProposals
	}

	ranked := make([]optimize.Proposal, len(proposals))
	copy(ranked, proposals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	top := ranked[0]

	if len(ranked) == 1 {
		if quality := optimize.QualityScore(top); quality >= optimize.AutoApproveQuality {
			return b.autoApprove(top, quality), nil
		}
	}

	threshold := b.appliedThreshold()
	var decision Decision
	for _, proposal := range ranked {
		votes := b.castVotes(proposal)
		result := optimize.Tally(proposal.ID, votes, threshold)
		b.remember(result)
		if proposal.ID == top.ID {
			decision = b.decideTop(proposal, result)
		}
	}
	return decision, nil
}

func (b *Builder) autoApprove(p optimize.Proposal, quality float64) Decision {
	result := optimize.ConsensusResult{
		ProposalID:         p.ID,
		ApprovalPercentage: quality * 100,
		Threshold:          b.cfg.Threshold,
		ConsensusReached:   true,
	}
	b.remember(result)
	decision := Decision{
		Approved: true,
		Winning:  &p,
		Result:   result,
		Reason:   fmt.Sprintf("auto-approved: single proposal quality %.2f >= %.2f", quality, optimize.AutoApproveQuality),
	}
	b.notify(Event{Kind: EventConsensusReached, ProposalID: p.ID, Approval: result.ApprovalPercentage, At: b.now()})
	return decision
}

func (b *Builder) decideTop(p optimize.Proposal, result optimize.ConsensusResult) Decision {
	if result.ConsensusReached && result.ApprovalPercentage >= b.cfg.Threshold {
		b.notify(Event{Kind: EventConsensusReached, ProposalID: p.ID, Approval: result.ApprovalPercentage, At: b.now()})
		return Decision{
			Approved: true,
			Winning:  &p,
			Result:   result,
			Reason:   fmt.Sprintf("approved: weighted approval %.1f%% >= %g%% threshold", result.ApprovalPercentage, b.cfg.Threshold),
		}
	}
	reason := fmt.Sprintf("rejected: weighted approval %.1f%% < %g%% threshold", result.ApprovalPercentage, b.cfg.Threshold)
	b.notify(Event{Kind: EventConsensusRejected, ProposalID: p.ID, Approval: result.ApprovalPercentage, At: b.now()})
	return Decision{Result: result, Reason: reason}
}

// castVotes derives one deterministic vote per agent from the agent's
// compatibility with the proposal and the proposal's quality score.
func (b *Builder) castVotes(p optimize.Proposal) []optimize.Vote {
	quality := optimize.QualityScore(p)
	votes := make([]optimize.Vote, 0, len(b.agents))
	for _, agent := range b.agents {
		compatibility := optimize.Compatibility(agent, p)
		votes = append(votes, optimize.Vote{
			ProposalID: p.ID,
			AgentID:    agent.ID,
			Verdict:    optimize.DeriveVerdict(compatibility, quality),
			Weight:     agent.Weight,
			Confidence: optimize.VoteConfidence(agent, compatibility),
			CastAt:     b.now(),
		})
	}
	return votes
}

func (b *Builder) remember(result optimize.ConsensusResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent[result.ProposalID] = result
}

// RecentResult returns the last computed result for a proposal id.
func (b *Builder) RecentResult(proposalID string) (optimize.ConsensusResult, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	result, ok := b.recent[proposalID]
	return result, ok
}

// Purge drops all remembered results.
func (b *Builder) Purge() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent = make(map[string]optimize.ConsensusResult)
}
