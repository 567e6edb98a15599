package ecs_test

import (
	"github.com/plus3/quickfps/ecs"
)

// journal collects lifecycle events in call order.
type journal struct {
	events []string
}

func (j *journal) add(event string) {
	j.events = append(j.events, event)
}

// recorder records InitEntity, Update and Destroy calls under a label.
type recorder struct {
	ecs.BaseComponent
	label    string
	pass     ecs.Pass
	log      *journal
	inits    int
	updates  int
	destroys int
	onUpdate func()
}

func (p *recorder) InitEntity() {
	p.inits++
	p.SetPass(p.pass)
	p.log.add("init:" + p.label)
}

func (p *recorder) Update(dt float64) {
	p.updates++
	p.log.add("update:" + p.label)
	if p.onUpdate != nil {
		p.onUpdate()
	}
}

func (p *recorder) Destroy() {
	p.destroys++
	p.log.add("destroy:" + p.label)
}

// Distinct component types so several recorders can live on one entity.
type inputRecorder struct{ recorder }
type aiRecorder struct{ recorder }
type otherAIRecorder struct{ recorder }
type physicsRecorder struct{ recorder }

func newRecorder(label string, pass ecs.Pass, log *journal) recorder {
	return recorder{label: label, pass: pass, log: log}
}
