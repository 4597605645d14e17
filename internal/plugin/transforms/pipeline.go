package transforms

import (
	"fmt"

	"git.home.luguber.info/inful/fsblog/internal/plugin"
)

// Pipeline applies transforms in order, each one receiving the output of the
// previous one.
type Pipeline struct {
	steps []TransformPlugin
}

// NewPipeline builds a pipeline from steps.
func NewPipeline(steps ...TransformPlugin) *Pipeline {
	return &Pipeline{steps: steps}
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.steps)
}

// Names returns the step names in order.
func (p *Pipeline) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Metadata().Name)
	}
	return names
}

// Apply folds content through every step. A failing or panicking step stops
// the pipeline with a *plugin.PluginError naming it. A nil pipeline returns
// content unchanged.
func (p *Pipeline) Apply(format, content string) (string, error) {
	if p == nil {
		return content, nil
	}
	for _, step := range p.steps {
		out, err := applyStep(step, format, content)
		if err != nil {
			return "", plugin.NewPluginError(step.Metadata().Name, "transform", err)
		}
		content = out
	}
	return content, nil
}

func applyStep(step TransformPlugin, format, content string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Transform(format, content)
}
