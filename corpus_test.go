package thompson

import (
	"os"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

type corpusCase struct {
	Pattern string    `yaml:"pattern"`
	Input   string    `yaml:"input"`
	Match   []int     `yaml:"match"`
	Groups  []*string `yaml:"groups"`
}

func loadCorpus(t *testing.T, path string) []corpusCase {
	t.Helper()
	content, err := os.ReadFile(path)
	assert.NilError(t, err)

	var cases []corpusCase
	assert.NilError(t, yaml.Unmarshal(content, &cases))
	assert.Assert(t, len(cases) > 0)
	return cases
}

func TestCorpus(t *testing.T) {
	cases := loadCorpus(t, "testdata/matches.yaml")

	noPrefilter := DefaultConfig()
	noPrefilter.EnablePrefilter = false
	configs := map[string]Config{
		"prefilter":    DefaultConfig(),
		"no-prefilter": noPrefilter,
	}

	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			for _, c := range cases {
				t.Run(c.Pattern+"/"+c.Input, func(t *testing.T) {
					re, err := CompileWithConfig(c.Pattern, config)
					assert.NilError(t, err)

					m := re.Find(c.Input)
					assert.Equal(t, re.MatchString(c.Input), m.Success)
					if c.Match == nil {
						assert.Assert(t, !m.Success, "unexpected match [%d,%d)", m.Begin, m.End)
						return
					}
					assert.Assert(t, m.Success)
					assert.DeepEqual(t, []int{m.Begin, m.End}, c.Match)

					if c.Groups == nil {
						return
					}
					assert.Equal(t, re.NumSubexp(), len(c.Groups))
					for i, want := range c.Groups {
						got, ok := m.Group(c.Input, i)
						if want == nil {
							assert.Assert(t, !ok, "group %d participated: %q", i, got)
							continue
						}
						assert.Assert(t, ok, "group %d did not participate", i)
						assert.Equal(t, got, *want)
					}
				})
			}
		})
	}
}
