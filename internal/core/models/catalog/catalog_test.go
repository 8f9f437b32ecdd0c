package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/skirmish/internal/core/models"
)

func TestAttackRange(t *testing.T) {
	c := Default()

	assert.Equal(t, MeleeAttackRange, c.AttackRange(models.UnitArcher, models.AttackMelee))
	assert.Equal(t, 8.0, c.AttackRange(models.UnitArcher, models.AttackRanged))
	assert.Equal(t, DefaultAttackRange, c.AttackRange(models.UnitUnknown, models.AttackRanged))
}

func TestFallbacks(t *testing.T) {
	c := Default()

	assert.Equal(t, 5.0, c.BaseDamage(models.UnitSupport))
	assert.Equal(t, DefaultBaseDamage, c.BaseDamage(models.UnitUnknown))
	assert.Equal(t, DefaultBaseDamage, c.BaseDamage(models.UnitBarracks))
	assert.Equal(t, DefaultAttackInterval, c.AttackInterval(models.UnitUnknown))
	assert.Equal(t, 0.0, c.Armor(models.UnitUnknown))
}

func TestEveryTemplateHasStats(t *testing.T) {
	c := Default()
	for kind, tpl := range c.Production {
		assert.Equal(t, kind, tpl.Kind)
		_, ok := c.StatsFor(kind)
		assert.True(t, ok, kind.String())
		assert.Greater(t, tpl.BuildTime, 0.0, kind.String())
	}
	for kind, tpl := range c.Enemies {
		assert.Equal(t, kind, tpl.Kind)
		_, ok := c.StatsFor(kind)
		assert.True(t, ok, kind.String())
	}
	assert.True(t, c.IsBuilding(models.UnitBarracks))
	assert.False(t, c.IsBuilding(models.UnitWorker))
}
