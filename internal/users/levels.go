package users

// Role distinguishes the two product audiences. Citizens analyze their own
// documents; students additionally accumulate XP toward legal-career tiers.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStudent Role = "student"
)

// NormalizeRole coerces any unknown value to citizen.
func NormalizeRole(raw string) Role {
	switch Role(raw) {
	case RoleCitizen, RoleStudent:
		return Role(raw)
	default:
		return RoleCitizen
	}
}

// XPPerAnalysis is awarded to a student for each completed document analysis.
const XPPerAnalysis = 25

type levelTier struct {
	level  int
	name   string
	minXP  int
	nextXP int // 0 for the final tier
}

var levelTiers = []levelTier{
	{level: 1, name: "Junior Clerk", minXP: 0, nextXP: 100},
	{level: 2, name: "Legal Researcher", minXP: 100, nextXP: 300},
	{level: 3, name: "Junior Associate", minXP: 300, nextXP: 700},
	{level: 4, name: "Senior Partner", minXP: 700, nextXP: 1500},
	{level: 5, name: "Legal Mastermind", minXP: 1500, nextXP: 0},
}

// LevelStats describes a student's position on the XP ladder.
type LevelStats struct {
	Level         int    `json:"level"`
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	XPToNext      int    `json:"xpToNext"`
	PercentToNext int    `json:"percentToNext"`
}

// StatsForXP resolves XP to the highest tier whose threshold is met.
func StatsForXP(xp int) LevelStats {
	if xp < 0 {
		xp = 0
	}
	current := levelTiers[0]
	for _, tier := range levelTiers {
		if xp >= tier.minXP {
			current = tier
		} else {
			break
		}
	}

	stats := LevelStats{
		Level: current.level,
		Name:  current.name,
		XP:    xp,
	}
	if current.nextXP == 0 {
		stats.PercentToNext = 100
		return stats
	}
	needed := current.nextXP - current.minXP
	earned := xp - current.minXP
	stats.PercentToNext = earned * 100 / needed
	stats.XPToNext = current.nextXP - xp
	return stats
}
