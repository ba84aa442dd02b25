package requisite

import (
	"errors"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Compiler turns catalog prerequisite text into trees.
type Compiler struct {
	Policy CommaPolicy
	// AllowDegraded records a course whose text cannot be parsed as having no
	// prerequisites instead of failing the catalog.
	AllowDegraded bool

	logger *zap.Logger
}

func NewCompiler(policy CommaPolicy, allowDegraded bool, logger *zap.Logger) *Compiler {
	if policy == nil {
		policy = CatalogPolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{Policy: policy, AllowDegraded: allowDegraded, logger: logger}
}

// Compile parses the prerequisite text of one course. Prose that names no
// course, such as "consent of instructor", is logged and left out of the tree.
func (c *Compiler) Compile(course, text string) (Node, error) {
	tokens, dropped := tokenize(text)
	if len(dropped) > 0 {
		c.logger.Warn("Ignoring prerequisite words",
			zap.String("course", course),
			zap.Strings("words", dropped),
			zap.String("text", text),
		)
	}

	node, err := NewParser(tokens, c.Policy).Parse()
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Course = course
		}
		return None(), err
	}
	return node, nil
}

// CompileCatalog compiles every course of a catalog. A failing course never
// affects the others: its error is collected, or with AllowDegraded it is
// logged and the course gets no prerequisites.
func (c *Compiler) CompileCatalog(texts map[string]string) (map[string]Node, error) {
	courses := lo.Keys(texts)
	slices.Sort(courses)

	trees := make(map[string]Node, len(courses))
	var errs error
	for _, course := range courses {
		node, err := c.Compile(course, texts[course])
		if err != nil {
			if !c.AllowDegraded {
				errs = multierr.Append(errs, err)
				continue
			}
			c.logger.Warn("Treating unparseable prerequisites as none",
				zap.String("course", course),
				zap.Error(err),
			)
		}
		trees[course] = node
	}

	c.logger.Debug("Compiled catalog",
		zap.Int("courses", len(courses)),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return trees, errs
}
