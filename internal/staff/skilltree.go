package staff

import "fmt"

// Modifier targets understood by the pipeline formulas. Skill-tree passives
// and badges both address these.
const (
	TargetSignalAccuracy = "signalAccuracy"
	TargetSlippage       = "slippage"
	TargetCommission     = "commission"
	TargetRiskReduction  = "riskReduction"
	TargetPositionSize   = "positionSize"
	TargetExecutionDelay = "executionDelay"
)

// PassiveEffect is one add/multiply adjustment granted by an unlocked node.
// Add modifiers are expressed as ratios (0.1 = 10%) and scaled to the target
// domain by the consumer; multiply modifiers apply directly.
type PassiveEffect struct {
	Target    string
	Magnitude float64
	Op        string // "add" or "multiply"
}

// Prereqs gates a skill-tree node.
type Prereqs struct {
	Level int
	Nodes []string
	Stats Skills // zero fields mean no requirement
}

// SkillNode is one entry in the procedural skill tree.
type SkillNode struct {
	ID       string
	Name     string
	Tier     int
	Category string // "analysis", "trading", "research"
	Cost     int    // skill points
	Requires Prereqs

	// Exactly one of the following is set.
	StatBonus *struct {
		Stat  string
		Value float64
	}
	Passives []PassiveEffect
}

func statNode(id, name string, tier, cost int, req Prereqs, stat string, value float64) SkillNode {
	n := SkillNode{ID: id, Name: name, Tier: tier, Category: stat, Cost: cost, Requires: req}
	n.StatBonus = &struct {
		Stat  string
		Value float64
	}{Stat: stat, Value: value}
	return n
}

func passiveNode(id, name, category string, tier, cost int, req Prereqs, effects ...PassiveEffect) SkillNode {
	return SkillNode{ID: id, Name: name, Tier: tier, Category: category, Cost: cost, Requires: req, Passives: effects}
}

// SkillTree is the node catalog keyed by id. Three branches mirror the three
// capability axes.
var SkillTree = buildSkillTree()

func buildSkillTree() map[string]SkillNode {
	nodes := []SkillNode{
		// Analysis branch.
		statNode("analysis_boost_1", "Sharper Eye I", 1, 1, Prereqs{}, "analysis", 5),
		statNode("analysis_boost_2", "Sharper Eye II", 1, 1,
			Prereqs{Nodes: []string{"analysis_boost_1"}}, "analysis", 5),
		passiveNode("chart_reading", "Chart Reading", "analysis", 2, 3,
			Prereqs{Nodes: []string{"analysis_boost_1"}, Stats: Skills{Analysis: 30}},
			PassiveEffect{Target: TargetSignalAccuracy, Magnitude: 0.1, Op: "add"}),
		passiveNode("fundamental_analysis", "Fundamental Analysis", "analysis", 2, 3,
			Prereqs{Nodes: []string{"analysis_boost_2"}, Stats: Skills{Analysis: 30}},
			PassiveEffect{Target: TargetSignalAccuracy, Magnitude: 0.1, Op: "add"}),
		passiveNode("pattern_recognition", "Pattern Recognition", "analysis", 3, 5,
			Prereqs{Nodes: []string{"chart_reading"}, Stats: Skills{Analysis: 50}},
			PassiveEffect{Target: TargetSignalAccuracy, Magnitude: 0.15, Op: "add"}),
		passiveNode("quant_modeling", "Quant Modeling", "analysis", 4, 10,
			Prereqs{Level: 15, Nodes: []string{"pattern_recognition"}, Stats: Skills{Analysis: 70}},
			PassiveEffect{Target: TargetSignalAccuracy, Magnitude: 1.1, Op: "multiply"}),

		// Trading branch.
		statNode("trading_boost_1", "Fast Hands I", 1, 1, Prereqs{}, "trading", 5),
		statNode("trading_boost_2", "Fast Hands II", 1, 1,
			Prereqs{Nodes: []string{"trading_boost_1"}}, "trading", 5),
		passiveNode("order_splitting", "Order Splitting", "trading", 2, 3,
			Prereqs{Nodes: []string{"trading_boost_1"}, Stats: Skills{Trading: 30}},
			PassiveEffect{Target: TargetSlippage, Magnitude: 0.8, Op: "multiply"}),
		passiveNode("fee_negotiation", "Fee Negotiation", "trading", 2, 3,
			Prereqs{Nodes: []string{"trading_boost_2"}, Stats: Skills{Trading: 30}},
			PassiveEffect{Target: TargetCommission, Magnitude: 0.85, Op: "multiply"}),
		passiveNode("dark_pool_access", "Dark Pool Access", "trading", 3, 5,
			Prereqs{Nodes: []string{"order_splitting"}, Stats: Skills{Trading: 50}},
			PassiveEffect{Target: TargetSlippage, Magnitude: 0.6, Op: "multiply"},
			PassiveEffect{Target: TargetExecutionDelay, Magnitude: 0.8, Op: "multiply"}),
		passiveNode("algo_execution", "Algorithmic Execution", "trading", 4, 10,
			Prereqs{Level: 15, Nodes: []string{"dark_pool_access"}, Stats: Skills{Trading: 70}},
			PassiveEffect{Target: TargetSlippage, Magnitude: 0.5, Op: "multiply"},
			PassiveEffect{Target: TargetCommission, Magnitude: 0.7, Op: "multiply"}),

		// Research branch.
		statNode("research_boost_1", "Deep Dive I", 1, 1, Prereqs{}, "research", 5),
		statNode("research_boost_2", "Deep Dive II", 1, 1,
			Prereqs{Nodes: []string{"research_boost_1"}}, "research", 5),
		passiveNode("risk_frameworks", "Risk Frameworks", "research", 2, 3,
			Prereqs{Nodes: []string{"research_boost_1"}, Stats: Skills{Research: 30}},
			PassiveEffect{Target: TargetRiskReduction, Magnitude: 0.1, Op: "add"}),
		passiveNode("scenario_planning", "Scenario Planning", "research", 3, 5,
			Prereqs{Nodes: []string{"risk_frameworks"}, Stats: Skills{Research: 50}},
			PassiveEffect{Target: TargetRiskReduction, Magnitude: 0.15, Op: "add"}),
		passiveNode("position_discipline", "Position Discipline", "research", 3, 5,
			Prereqs{Nodes: []string{"research_boost_2"}, Stats: Skills{Research: 50}},
			PassiveEffect{Target: TargetPositionSize, Magnitude: 0.9, Op: "multiply"}),
		passiveNode("macro_overlay", "Macro Overlay", "research", 4, 10,
			Prereqs{Level: 15, Nodes: []string{"scenario_planning"}, Stats: Skills{Research: 70}},
			PassiveEffect{Target: TargetRiskReduction, Magnitude: 0.2, Op: "add"},
			PassiveEffect{Target: TargetSignalAccuracy, Magnitude: 0.05, Op: "add"}),
	}

	out := make(map[string]SkillNode, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n
	}
	return out
}

// NodeState describes whether a node can be unlocked right now.
type NodeState uint8

const (
	NodeLocked       NodeState = iota // prerequisites unmet
	NodeAvailable                     // ready to purchase
	NodeInsufficient                  // prerequisites met, not enough SP
	NodeUnlocked                      // already owned
)

// MeetsRequirements reports whether the member satisfies a node's gates,
// ignoring skill points.
func MeetsRequirements(m *Member, node SkillNode) bool {
	if node.Requires.Level > 0 && m.Progression.Level < node.Requires.Level {
		return false
	}
	for _, req := range node.Requires.Nodes {
		if !hasUnlocked(m, req) {
			return false
		}
	}
	stats := EffectiveSkills(m)
	req := node.Requires.Stats
	if req.Analysis > 0 && stats.Analysis < req.Analysis {
		return false
	}
	if req.Trading > 0 && stats.Trading < req.Trading {
		return false
	}
	if req.Research > 0 && stats.Research < req.Research {
		return false
	}
	return true
}

func hasUnlocked(m *Member, id string) bool {
	for _, s := range m.UnlockedSkills {
		if s == id {
			return true
		}
	}
	return false
}

// State returns the member's relationship to a node.
func State(m *Member, id string) NodeState {
	node, ok := SkillTree[id]
	if !ok {
		return NodeLocked
	}
	if hasUnlocked(m, id) {
		return NodeUnlocked
	}
	if !MeetsRequirements(m, node) {
		return NodeLocked
	}
	if m.Progression.SkillPoints < node.Cost {
		return NodeInsufficient
	}
	return NodeAvailable
}

// Unlock spends skill points and records the node. Refusals come back as
// errors with a stable message prefix; these are expected outcomes, not
// faults.
func Unlock(m *Member, id string) error {
	node, ok := SkillTree[id]
	if !ok {
		return fmt.Errorf("unknown skill node %q", id)
	}
	switch State(m, id) {
	case NodeUnlocked:
		return fmt.Errorf("skill %q already unlocked", id)
	case NodeLocked:
		return fmt.Errorf("skill %q prerequisites unmet", id)
	case NodeInsufficient:
		return fmt.Errorf("skill %q needs %d SP, have %d", id, node.Cost, m.Progression.SkillPoints)
	}
	m.Progression.SkillPoints -= node.Cost
	m.Progression.SpentPoints += node.Cost
	m.UnlockedSkills = append(m.UnlockedSkills, id)
	return nil
}

// EffectiveSkills folds statBonus nodes into the base skills, clamped to
// [0, 100] per axis.
func EffectiveSkills(m *Member) Skills {
	out := m.Skills
	for _, id := range m.UnlockedSkills {
		node, ok := SkillTree[id]
		if !ok || node.StatBonus == nil {
			continue
		}
		switch node.StatBonus.Stat {
		case "analysis":
			out.Analysis += node.StatBonus.Value
		case "trading":
			out.Trading += node.StatBonus.Value
		case "research":
			out.Research += node.StatBonus.Value
		}
	}
	out.Analysis = clampStat(out.Analysis)
	out.Trading = clampStat(out.Trading)
	out.Research = clampStat(out.Research)
	return out
}

func clampStat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PassiveModifiers collects all passive effects for a target from the
// member's unlocked nodes, in unlock order.
func PassiveModifiers(m *Member, target string) []PassiveEffect {
	var out []PassiveEffect
	for _, id := range m.UnlockedSkills {
		node, ok := SkillTree[id]
		if !ok {
			continue
		}
		for _, eff := range node.Passives {
			if eff.Target == target {
				out = append(out, eff)
			}
		}
	}
	return out
}
