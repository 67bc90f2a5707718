package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/course-planner/internal/types"
)

// ValidatePlan checks a decoded JSON candidate against the plan rule set.
// The walk is non-short-circuiting: every rule is evaluated and every
// violation collected, so a repair prompt can carry the full defect list.
// A typed plan is returned only when the issue list is empty.
func ValidatePlan(candidate any) (*types.TrainingPlan, types.Issues) {
	root, ok := candidate.(map[string]any)
	if !ok {
		return nil, types.Issues{{
			Path:     "",
			Message:  "candidate is not a JSON object",
			Expected: "object",
			Received: jsonTypeName(candidate),
		}}
	}

	var issues types.Issues
	for _, rule := range planRules {
		issues = append(issues, applyRule(root, rule)...)
	}
	for _, rule := range planUniqueRules {
		issues = append(issues, applyUnique(root, rule)...)
	}
	if len(issues) > 0 {
		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
		return nil, issues
	}

	plan, err := decodePlan(root)
	if err != nil {
		return nil, types.Issues{{
			Path:     "",
			Message:  fmt.Sprintf("plan could not be decoded: %v", err),
			Expected: "training plan",
			Received: "object",
		}}
	}
	return plan, nil
}

// ValidateJSON parses raw JSON and validates the result.
func ValidateJSON(raw []byte) (*types.TrainingPlan, types.Issues) {
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, types.Issues{{
			Path:     "",
			Message:  fmt.Sprintf("invalid JSON: %v", err),
			Expected: "object",
			Received: "unparseable text",
		}}
	}
	return ValidatePlan(candidate)
}

// lookup is one concrete site a rule resolved to.
type lookup struct {
	path    string
	value   any
	present bool
}

func applyRule(root map[string]any, rule Rule) types.Issues {
	sites := resolvePath("", root, strings.Split(rule.Path, "."))
	var issues types.Issues
	for _, site := range sites {
		issues = append(issues, checkSite(site, rule)...)
	}
	return issues
}

// resolvePath walks the candidate along dotted segments. A segment with a
// trailing "[]" fans out over array elements, recording the element index
// in the reported path. Missing intermediate segments yield nothing; only
// a missing final segment is surfaced, so required-ness of a parent is
// reported once by the parent's own rule.
func resolvePath(prefix string, cur any, segs []string) []lookup {
	if len(segs) == 0 {
		return []lookup{{path: prefix, value: cur, present: true}}
	}

	seg := segs[0]
	name := strings.TrimSuffix(seg, "[]")
	isArray := name != seg

	obj, ok := cur.(map[string]any)
	if !ok {
		return nil
	}
	val, exists := obj[name]
	childPath := joinPath(prefix, name)

	if !exists || val == nil {
		if len(segs) == 1 && !isArray {
			return []lookup{{path: childPath, present: false}}
		}
		return nil
	}

	if !isArray {
		if len(segs) == 1 {
			return []lookup{{path: childPath, value: val, present: true}}
		}
		return resolvePath(childPath, val, segs[1:])
	}

	arr, ok := val.([]any)
	if !ok {
		return nil
	}
	var sites []lookup
	for i, elem := range arr {
		elemPath := fmt.Sprintf("%s[%d]", childPath, i)
		if len(segs) == 1 {
			sites = append(sites, lookup{path: elemPath, value: elem, present: true})
			continue
		}
		sites = append(sites, resolvePath(elemPath, elem, segs[1:])...)
	}
	return sites
}

func checkSite(site lookup, rule Rule) types.Issues {
	if !site.present {
		if !rule.Required {
			return nil
		}
		return types.Issues{{
			Path:     site.path,
			Message:  "required field is missing",
			Expected: string(rule.Type),
			Received: "missing",
		}}
	}

	if rule.Type != "" && !matchesType(site.value, rule.Type) {
		return types.Issues{{
			Path:     site.path,
			Message:  fmt.Sprintf("expected %s", rule.Type),
			Expected: string(rule.Type),
			Received: jsonTypeName(site.value),
		}}
	}

	var issues types.Issues
	if s, ok := site.value.(string); ok {
		if rule.MinLen > 0 && utf8.RuneCountInString(strings.TrimSpace(s)) < rule.MinLen {
			issues = append(issues, types.Issue{
				Path:     site.path,
				Message:  fmt.Sprintf("must be at least %d characters", rule.MinLen),
				Expected: fmt.Sprintf(">= %d characters", rule.MinLen),
				Received: fmt.Sprintf("%d characters", utf8.RuneCountInString(strings.TrimSpace(s))),
			})
		}
		if len(rule.Enum) > 0 && !containsString(rule.Enum, s) {
			issues = append(issues, types.Issue{
				Path:     site.path,
				Message:  "value is not in the allowed set",
				Expected: "one of [" + strings.Join(rule.Enum, ", ") + "]",
				Received: s,
			})
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
			issues = append(issues, types.Issue{
				Path:     site.path,
				Message:  "value does not match the required pattern",
				Expected: rule.Pattern.String(),
				Received: s,
			})
		}
	}
	if n, ok := site.value.(float64); ok {
		if rule.Min != nil && n < *rule.Min {
			issues = append(issues, types.Issue{
				Path:     site.path,
				Message:  fmt.Sprintf("must be at least %v", *rule.Min),
				Expected: fmt.Sprintf(">= %v", *rule.Min),
				Received: formatNumber(n),
			})
		}
		if rule.Max != nil && n > *rule.Max {
			issues = append(issues, types.Issue{
				Path:     site.path,
				Message:  fmt.Sprintf("must be at most %v", *rule.Max),
				Expected: fmt.Sprintf("<= %v", *rule.Max),
				Received: formatNumber(n),
			})
		}
	}
	if arr, ok := site.value.([]any); ok && rule.NonEmpty && len(arr) == 0 {
		issues = append(issues, types.Issue{
			Path:     site.path,
			Message:  "must not be empty",
			Expected: "non-empty array",
			Received: "empty array",
		})
	}
	return issues
}

func applyUnique(root map[string]any, rule UniqueRule) types.Issues {
	arr, ok := root[rule.ArrayPath].([]any)
	if !ok {
		return nil
	}
	seen := make(map[string]int)
	var issues types.Issues
	for i, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		val, exists := obj[rule.Field]
		if !exists || val == nil {
			continue
		}
		key := fmt.Sprintf("%v", val)
		if first, dup := seen[key]; dup {
			issues = append(issues, types.Issue{
				Path:     fmt.Sprintf("%s[%d].%s", rule.ArrayPath, i, rule.Field),
				Message:  fmt.Sprintf("duplicate %s, first used at %s[%d]", rule.Label, rule.ArrayPath, first),
				Expected: "unique " + rule.Label,
				Received: key,
			})
			continue
		}
		seen[key] = i
	}
	return issues
}

func decodePlan(root map[string]any) (*types.TrainingPlan, error) {
	raw, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	var plan types.TrainingPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func matchesType(v any, t valueType) bool {
	switch t {
	case typeString:
		_, ok := v.(string)
		return ok
	case typeNumber:
		_, ok := v.(float64)
		return ok
	case typeInteger:
		n, ok := v.(float64)
		return ok && n == math.Trunc(n)
	case typeBoolean:
		_, ok := v.(bool)
		return ok
	case typeArray:
		_, ok := v.([]any)
		return ok
	case typeObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return true
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
