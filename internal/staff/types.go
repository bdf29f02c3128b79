// Package staff provides the employee data model: capability stats, traits,
// the procedural skill tree, and collectible badges.
package staff

// Role is the pipeline function a staff member performs.
type Role uint8

const (
	RoleAnalyst Role = iota
	RoleManager
	RoleTrader
)

// RoleName returns a human-readable role name.
func RoleName(r Role) string {
	switch r {
	case RoleAnalyst:
		return "analyst"
	case RoleManager:
		return "manager"
	case RoleTrader:
		return "trader"
	default:
		return "unknown"
	}
}

// Trait is a fixed personality marker affecting pipeline formulas.
type Trait string

const (
	TraitPerfectionist Trait = "perfectionist"
	TraitTechSavvy     Trait = "tech_savvy"
	TraitSensitive     Trait = "sensitive"
	TraitRiskAverse    Trait = "risk_averse"
	TraitSocial        Trait = "social"
)

// Skills are the three capability axes, each 0-100.
type Skills struct {
	Analysis float64 `json:"analysis"`
	Trading  float64 `json:"trading"`
	Research float64 `json:"research"`
}

// ExitPolicy holds a staff member's personal stop-loss / take-profit
// thresholds as PnL fractions (stop negative, take positive).
type ExitPolicy struct {
	StopLossPct   float64 `json:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct"`
}

// Progression tracks skill-tree currency.
type Progression struct {
	Level       int `json:"level"`
	SkillPoints int `json:"skill_points"`
	SpentPoints int `json:"spent_points"`
}

// Member is a fully-resolved staff record. All optional concepts from the
// hiring flow (traits, unlocks, badges, exit policy) are materialized here
// once, at construction time, with defaults already applied; downstream
// code never re-defaults.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`

	Skills Skills  `json:"skills"`
	Traits []Trait `json:"traits"`

	// Condition.
	Stress       float64 `json:"stress"`       // 0-100, 100 = sidelined
	Stamina      float64 `json:"stamina"`      // 0-MaxStamina
	MaxStamina   float64 `json:"max_stamina"`
	Satisfaction float64 `json:"satisfaction"` // 0-100

	// Overlay state.
	UnlockedSkills []string `json:"unlocked_skills"` // skill-tree node ids
	Badges         []string `json:"badges"`          // badge ids

	Progression Progression `json:"progression"`

	// Personal exit thresholds; nil means none configured.
	Exits *ExitPolicy `json:"exits,omitempty"`

	// Workstation assignment; negative Seat means unseated.
	Seat int `json:"seat"`
}

// HasTrait reports whether the member carries the given trait.
func (m *Member) HasTrait(t Trait) bool {
	for _, have := range m.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// HasBadge reports whether the member owns the given badge.
func (m *Member) HasBadge(id string) bool {
	for _, b := range m.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// Available reports whether the member is seated and not stressed out.
func (m *Member) Available() bool {
	return m.Seat >= 0 && m.Stress < 100
}

// NewMember constructs a member with all defaults resolved.
func NewMember(id, name string, role Role, skills Skills) *Member {
	return &Member{
		ID:           id,
		Name:         name,
		Role:         role,
		Skills:       skills,
		Stress:       0,
		Stamina:      100,
		MaxStamina:   100,
		Satisfaction: 50,
		Seat:         -1,
	}
}

// AddStress raises stress, clamped to 100.
func (m *Member) AddStress(delta float64) {
	m.Stress += delta
	if m.Stress > 100 {
		m.Stress = 100
	}
	if m.Stress < 0 {
		m.Stress = 0
	}
}

// AddSatisfaction raises satisfaction, clamped to [0, 100].
func (m *Member) AddSatisfaction(delta float64) {
	m.Satisfaction += delta
	if m.Satisfaction > 100 {
		m.Satisfaction = 100
	}
	if m.Satisfaction < 0 {
		m.Satisfaction = 0
	}
}

// Directory is the staff roster used by the pipeline.
type Directory struct {
	Members []*Member
	index   map[string]*Member
}

// NewDirectory builds a roster with an id index.
func NewDirectory(members []*Member) *Directory {
	idx := make(map[string]*Member, len(members))
	for _, m := range members {
		idx[m.ID] = m
	}
	return &Directory{Members: members, index: idx}
}

// ByID returns the member with the given id, or nil.
func (d *Directory) ByID(id string) *Member {
	return d.index[id]
}

// ByRole returns all members holding the role.
func (d *Directory) ByRole(r Role) []*Member {
	var out []*Member
	for _, m := range d.Members {
		if m.Role == r {
			out = append(out, m)
		}
	}
	return out
}

// FirstAvailable returns the first seated, non-stressed member with the
// role, or nil when none qualifies.
func (d *Directory) FirstAvailable(r Role) *Member {
	for _, m := range d.Members {
		if m.Role == r && m.Available() {
			return m
		}
	}
	return nil
}
