// Package hello is the smallest plugin: a repeating timer adds a greeting
// for a randomly picked person to an on-screen list.
package hello

import (
	"math/rand/v2"
	"strings"

	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/plus3/shaderdemos/render"
)

// Names are the people that may be greeted.
var Names = []string{"Elaina Proctor", "Renzo Hume", "Zayna Nieves"}

// People is the list of names added so far, oldest first.
type People struct {
	Names []string
}

// Roster marks the label that shows People.
type Roster struct{}

// Plugin adds a name every Interval seconds, drawn from Names with a
// generator seeded by Seed.
type Plugin struct {
	Interval float64
	Seed     uint64
}

func (p Plugin) Build(a *app.App) {
	interval := p.Interval
	if interval <= 0 {
		interval = 1
	}

	ecs.RegisterComponent[Roster](a.Registry)
	a.Storage.AddSingleton(People{})

	a.AddSystems(app.Startup, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(render.NewText("", 40, 10, 10), Roster{})
	}))
	a.AddSystems(app.Update, &AddPeopleSystem{
		timer: app.NewTimer(interval, app.Repeating),
		rng:   rand.New(rand.NewPCG(p.Seed, p.Seed)),
	})
	a.AddSystems(app.PostUpdate, &RosterSystem{})
}

// AddPeopleSystem appends a random name every time the timer fires.
type AddPeopleSystem struct {
	People ecs.Singleton[People]

	timer app.Timer
	rng   *rand.Rand
}

func (s *AddPeopleSystem) Execute(frame *ecs.UpdateFrame) {
	people := s.People.MustGet()
	for range s.timer.Tick(frame.DeltaTime).TimesFinishedThisTick() {
		name := Names[s.rng.IntN(len(Names))]
		people.Names = append(people.Names, name)
		app.Logger().Debug("person added", "name", name, "count", len(people.Names))
	}
}

type rosterView struct {
	*render.Text
	*Roster
}

// RosterSystem writes one name per line into the roster label.
type RosterSystem struct {
	Labels ecs.Query[rosterView]
	People ecs.Singleton[People]
}

func (s *RosterSystem) Execute(*ecs.UpdateFrame) {
	value := strings.Join(s.People.MustGet().Names, "\n")
	for label := range s.Labels.Values() {
		label.Text.Value = value
	}
}
