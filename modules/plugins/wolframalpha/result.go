package wolframalpha

import (
	"strings"

	"github.com/Jeffail/gabs"
	"github.com/pkg/errors"
)

// Result is the parsed queryresult of the full results API
type Result struct {
	Success bool
	Pods    []Pod
	// Error is the message wolfram|alpha sent along with a failed query
	Error string
}

type Pod struct {
	Title   string
	Primary bool
	SubPods []SubPod
}

type SubPod struct {
	Text  string
	Image string
}

// PrimaryPod returns the first primary pod or nil
func (r *Result) PrimaryPod() *Pod {
	for i := range r.Pods {
		if r.Pods[i].Primary {
			return &r.Pods[i]
		}
	}
	return nil
}

// ParseResult reads a JSON response, missing fields are left empty.
// A result only counts as successful if it has a primary pod.
func ParseResult(data []byte) (*Result, error) {
	json, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing wolfram|alpha response failed")
	}
	if !json.ExistsP("queryresult") {
		return nil, errors.New("wolfram|alpha response has no queryresult")
	}
	queryResult := json.Path("queryresult")

	result := &Result{}
	if message, ok := queryResult.Search("error", "msg").Data().(string); ok {
		result.Error = message
	}

	pods, _ := queryResult.Path("pods").Children()
	for _, podJSON := range pods {
		pod := Pod{
			Title:   strings.TrimSpace(stringAt(podJSON, "title")),
			Primary: boolAt(podJSON, "primary"),
		}

		subPods, _ := podJSON.Path("subpods").Children()
		for _, subPodJSON := range subPods {
			pod.SubPods = append(pod.SubPods, SubPod{
				Text:  strings.TrimSpace(stringAt(subPodJSON, "plaintext")),
				Image: stringAt(subPodJSON, "img.src"),
			})
		}

		result.Pods = append(result.Pods, pod)
	}

	result.Success = boolAt(queryResult, "success") && result.PrimaryPod() != nil
	return result, nil
}

func stringAt(container *gabs.Container, path string) string {
	value, _ := container.Path(path).Data().(string)
	return value
}

func boolAt(container *gabs.Container, path string) bool {
	value, _ := container.Path(path).Data().(bool)
	return value
}
