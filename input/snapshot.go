package input

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is the intent observed for one tick.
type Snapshot struct {
	Move mgl64.Vec2
	Look mgl64.Vec2

	JumpRequested bool
	JumpHeld      bool
	RunToggled    bool
	CrouchToggled bool

	Skills SkillSet

	SecondaryPointerActive bool
	PrimaryPointer         mgl64.Vec2
	SecondaryPointer       mgl64.Vec2
}

// MoveMagnitude is the stick deflection clamped to 1.
func (s Snapshot) MoveMagnitude() float64 {
	m := s.Move.Len()
	if m > 1 {
		return 1
	}
	return m
}

// SkillID names a discrete action trigger.
type SkillID uint8

const (
	SkillNone SkillID = iota
	Skill1
	Skill2
	Attack1
	Attack2
	skillCount
)

var skillNames = [skillCount]string{
	SkillNone: "none",
	Skill1:    "skill1",
	Skill2:    "skill2",
	Attack1:   "attack1",
	Attack2:   "attack2",
}

func (id SkillID) Valid() bool {
	return id > SkillNone && id < skillCount
}

func (id SkillID) String() string {
	if id >= skillCount {
		return "unknown"
	}
	return skillNames[id]
}

// ParseSkill resolves a case-insensitive skill name.
func ParseSkill(name string) (SkillID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id := Skill1; id < skillCount; id++ {
		if skillNames[id] == name {
			return id, true
		}
	}
	return SkillNone, false
}

// SkillSet is a bitset of triggered skills.
type SkillSet uint32

func (s SkillSet) With(id SkillID) SkillSet {
	return s | 1<<id
}

func (s SkillSet) Has(id SkillID) bool {
	return id.Valid() && s&(1<<id) != 0
}

func (s SkillSet) Empty() bool {
	return s == 0
}

// IDs lists the triggered skills in ascending order.
func (s SkillSet) IDs() []SkillID {
	var out []SkillID
	for id := Skill1; id < skillCount; id++ {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
