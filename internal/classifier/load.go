package classifier

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML shape of a rule set. Sequences keep declaration
// order, which is the match order.
//
//	categories:
//	  - name: Food & Dining
//	    keywords: [swiggy, zomato]
//	    subcategories:
//	      - name: Food Delivery
//	        keywords: [swiggy]
//	patterns:
//	  - pattern: salary
//	    category: Income - Salary
type ruleFile struct {
	Categories []struct {
		Name          string   `yaml:"name"`
		Keywords      []string `yaml:"keywords"`
		SubCategories []struct {
			Name     string   `yaml:"name"`
			Keywords []string `yaml:"keywords"`
		} `yaml:"subcategories"`
	} `yaml:"categories"`
	Patterns []struct {
		Pattern  string `yaml:"pattern"`
		Category string `yaml:"category"`
	} `yaml:"patterns"`
}

// LoadRules parses a YAML rule set into a Classifier.
func LoadRules(r io.Reader) (*Classifier, error) {
	var rf ruleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	categories := make([]Category, 0, len(rf.Categories))
	for i, c := range rf.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category %d: missing name", i+1)
		}
		cat := Category{Name: c.Name, Keywords: lowerAll(c.Keywords)}
		for j, s := range c.SubCategories {
			if strings.TrimSpace(s.Name) == "" {
				return nil, fmt.Errorf("category %q subcategory %d: missing name", c.Name, j+1)
			}
			cat.SubCategories = append(cat.SubCategories, SubCategory{Name: s.Name, Keywords: lowerAll(s.Keywords)})
		}
		categories = append(categories, cat)
	}

	patterns := make([]Pattern, 0, len(rf.Patterns))
	for i, p := range rf.Patterns {
		if strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("pattern %d: missing category", i+1)
		}
		expr, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %d %q: %w", i+1, p.Pattern, err)
		}
		patterns = append(patterns, Pattern{Expr: expr, Category: p.Category})
	}

	return New(categories, patterns), nil
}

// LoadFile reads a YAML rule set from disk.
func LoadFile(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	return LoadRules(f)
}

// descriptions are lower-cased before matching, so keywords must be too
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
