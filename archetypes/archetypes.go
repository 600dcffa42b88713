package archetypes

import (
	"github.com/automoto/fingerdrop/components"
	cfg "github.com/automoto/fingerdrop/config"
	"github.com/automoto/fingerdrop/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	// Controller is the play scene singleton: the session plus the pointer
	// buffer the input system fills each frame.
	Controller = newArchetype(
		tags.Controller,
		components.Session,
		components.Pointer,
	)
	Audio = newArchetype(
		components.Audio,
	)
	Net = newArchetype(
		components.Net,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	all := make([]donburi.IComponentType, 0, len(a.components)+len(cs))
	all = append(all, a.components...)
	all = append(all, cs...)
	return ecs.World.Entry(ecs.Create(cfg.Default, all...))
}
