package recipe

// weaponBase holds the per-class damage/range progression used to generate
// the default catalog's weapon ladder. Grades scale damage and cost
// linearly; range and shootsOverWalls are fixed per class.
var weaponBase = map[WeaponClass]struct {
	baseDamage      int
	damageStep      int
	baseRange       int
	shootsOverWalls bool
}{
	ClassStraight: {baseDamage: 15, damageStep: 10, baseRange: 8, shootsOverWalls: false},
	ClassDiag:     {baseDamage: 12, damageStep: 9, baseRange: 5, shootsOverWalls: false},
	ClassArc:      {baseDamage: 10, damageStep: 8, baseRange: 7, shootsOverWalls: true},
	ClassLob:      {baseDamage: 14, damageStep: 9, baseRange: 6, shootsOverWalls: true},
	ClassMelee:    {baseDamage: 25, damageStep: 12, baseRange: 1, shootsOverWalls: false},
}

// WeaponKey builds the canonical key for a weapon class/grade pair, e.g.
// "weapon.straight.t5".
func WeaponKey(class WeaponClass, grade int) string {
	tiers := [...]string{"", "t1", "t2", "t3", "t4", "t5"}
	tier := "t1"
	if grade >= 1 && grade <= 5 {
		tier = tiers[grade]
	}
	return "weapon." + string(class) + "." + tier
}

// DefaultRecipes returns the built-in recipe ladder: every weapon
// class/grade combination named in the GLOSSARY tables, one wood wall, and
// a craftable healing recipe. This is game-balance data, not deployment
// config, so it lives as a Go literal rather than a loaded file.
func DefaultRecipes() []Recipe {
	out := make([]Recipe, 0, 32)
	classes := []WeaponClass{ClassStraight, ClassDiag, ClassArc, ClassLob, ClassMelee}
	for _, class := range classes {
		base := weaponBase[class]
		for grade := 1; grade <= 5; grade++ {
			damage := base.baseDamage + base.damageStep*(grade-1)
			out = append(out, Recipe{
				Key:     WeaponKey(class, grade),
				Kind:    KindWeapon,
				Enabled: true,
				Output: Output{
					Weapon: &WeaponOutput{
						Class:           class,
						Grade:           grade,
						Damage:          damage,
						Range:           base.baseRange,
						ShootsOverWalls: base.shootsOverWalls,
					},
				},
				Costs: Costs{Wood: 2 * grade, Stone: grade},
			})
		}
	}

	out = append(out, Recipe{
		Key:     "wall.wood",
		Kind:    KindWall,
		Enabled: true,
		Output: Output{
			Wall: &WallOutput{HP: 30, MaxPlaceDistance: 2},
		},
		Costs: Costs{Wood: 4},
	})

	out = append(out, Recipe{
		Key:     "heal.brew",
		Kind:    KindHealing,
		Enabled: true,
		Output:  Output{Heal: 15},
		Costs:   Costs{Food: 3},
	})

	return out
}

// HealingItemAmounts maps the inventory heal.* item keys collected as loot
// to their fixed restore amount, per the GLOSSARY reference table.
var HealingItemAmounts = map[string]int{
	"heal.small":  10,
	"heal.medium": 20,
	"heal.large":  30,
	"heal.major":  50,
}
