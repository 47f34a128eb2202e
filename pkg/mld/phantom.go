package mld

// PhantomNode is a virtual endpoint lying on an edge rather than on a node:
// the snapped location of a geocoded source or target. Each phantom carries
// independent forward/reverse residuals, because the edge it sits on can be
// traversed in either direction with a different remaining weight.
type PhantomNode struct {
	ForwardSegment SegmentId
	ReverseSegment SegmentId

	ForwardWeightOffset EdgeWeight
	ReverseWeightOffset EdgeWeight

	ForwardDurationOffset EdgeDuration
	ReverseDurationOffset EdgeDuration

	ForwardDistanceOffset EdgeDistance
	ReverseDistanceOffset EdgeDistance

	ValidForwardSource bool
	ValidForwardTarget bool
	ValidReverseSource bool
	ValidReverseTarget bool
}

func (p PhantomNode) GetForwardWeightPlusOffset() EdgeWeight     { return p.ForwardWeightOffset }
func (p PhantomNode) GetReverseWeightPlusOffset() EdgeWeight     { return p.ReverseWeightOffset }
func (p PhantomNode) GetForwardDuration() EdgeDuration           { return p.ForwardDurationOffset }
func (p PhantomNode) GetReverseDuration() EdgeDuration           { return p.ReverseDurationOffset }
func (p PhantomNode) GetForwardDistance() EdgeDistance           { return p.ForwardDistanceOffset }
func (p PhantomNode) GetReverseDistance() EdgeDistance           { return p.ReverseDistanceOffset }

func (p PhantomNode) IsValidForwardSource() bool { return p.ValidForwardSource && p.ForwardSegment.Enabled }
func (p PhantomNode) IsValidForwardTarget() bool { return p.ValidForwardTarget && p.ForwardSegment.Enabled }
func (p PhantomNode) IsValidReverseSource() bool { return p.ValidReverseSource && p.ReverseSegment.Enabled }
func (p PhantomNode) IsValidReverseTarget() bool { return p.ValidReverseTarget && p.ReverseSegment.Enabled }
