package optimize

import "strings"

// QualityScore rates a proposal in [0,1]: the average of expected
// impact, confidence and normalized priority rank, minus a penalty for
// declared risk.
func QualityScore(p Proposal) float64 {
	priority := float64(p.Priority)
	if priority < 0 {
		priority = 0
	}
	if priority > MaxPriorityRank {
		priority = MaxPriorityRank
	}
	score := (p.ExpectedImpact + p.Confidence + priority/MaxPriorityRank) / 3
	switch p.Risk {
	case RiskHigh:
		score -= HighRiskPenalty
	case RiskMedium:
		score -= MediumRiskPenalty
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Compatibility measures how well an agent's specialty and declared
// capabilities fit a proposal: the specialty contributes 1.0 on a type
// match and 0.5 otherwise, averaged with the fraction of capabilities
// that lexically match the proposal's name or type.
func Compatibility(agent VotingAgent, p Proposal) float64 {
	typeScore := 0.5
	if agent.Specialty == p.Type {
		typeScore = 1.0
	}
	capScore := 0.0
	if len(agent.Capabilities) > 0 {
		haystack := strings.ToLower(p.Name + " " + string(p.Type))
		matched := 0
		for _, capability := range agent.Capabilities {
			if strings.Contains(haystack, strings.ToLower(capability)) {
				matched++
			}
		}
		capScore = float64(matched) / float64(len(agent.Capabilities))
	}
	return (typeScore + capScore) / 2
}

// DeriveVerdict turns the compatibility x quality score into a verdict.
func DeriveVerdict(compatibility, quality float64) Verdict {
	score := compatibility * quality
	switch {
	case score > VoteApproveScore:
		return VerdictApprove
	case score < VoteRejectScore:
		return VerdictReject
	default:
		return VerdictAbstain
	}
}

// VoteConfidence is the agent's confidence in its own vote, capped at 1.
func VoteConfidence(agent VotingAgent, compatibility float64) float64 {
	confidence := 0.7 + 0.3*compatibility + 0.05*float64(len(agent.Capabilities))
	if confidence > 1 {
		return 1
	}
	return confidence
}

// Tally aggregates votes into a consensus result against the applied
// threshold. The weighted approval percentage is the confidence-scaled
// approve weight over the total weight of all votes; no votes means 0%
// and no consensus.
func Tally(proposalID string, votes []Vote, appliedThreshold float64) ConsensusResult {
	result := ConsensusResult{
		ProposalID: proposalID,
		Threshold:  appliedThreshold,
	}
	totalWeight := 0.0
	approveWeight := 0.0
	for _, v := range votes {
		result.TotalVotes++
		totalWeight += v.Weight
		switch v.Verdict {
		case VerdictApprove:
			result.Approvals++
			approveWeight += v.Weight * v.Confidence
		case VerdictReject:
			result.Rejections++
		default:
			result.Abstentions++
		}
	}
	if result.TotalVotes == 0 || totalWeight <= 0 {
		return result
	}
	result.ApprovalPercentage = approveWeight / totalWeight * 100
	if result.ApprovalPercentage > 100 {
		result.ApprovalPercentage = 100
	}
	result.ConsensusReached = result.ApprovalPercentage >= appliedThreshold
	return result
}
