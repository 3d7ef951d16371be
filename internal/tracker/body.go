package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/stylemate/stylemate/internal/item"
)

// Body field labels. The tracker stores items as a human-readable structured
// text body; these labels are the parse keys on the way back.
const (
	labelName     = "이름"
	labelBrand    = "브랜드"
	labelCategory = "카테고리"
	labelPrice    = "가격"
	labelColors   = "색상"
	labelSizes    = "사이즈"
	labelMaterial = "소재"
	labelFit      = "핏"
	labelURL      = "원본 URL"
)

var bodyTemplate = strings.TrimLeft(dedent.Dedent(`
	## 아이템 정보
	- %s: %s
	- %s: %s
	- %s: %s
	- %s: %d
	- %s: %s
	- %s: %s
	- %s: %s
	- %s: %s
	- %s: %s

	## 설명
	%s
`), "\n")

// FormatBody serializes an item into the tracker body format. The image URL
// is deliberately not persisted; it is rediscoverable from the original URL.
func FormatBody(it *item.Item) string {
	return fmt.Sprintf(bodyTemplate,
		labelName, it.Name,
		labelBrand, it.Brand,
		labelCategory, string(it.Category),
		labelPrice, it.Price,
		labelColors, strings.Join(it.Colors, ", "),
		labelSizes, strings.Join(it.Sizes, ", "),
		labelMaterial, it.Material,
		labelFit, it.Fit,
		labelURL, it.OriginalURL,
		it.Description,
	)
}

// ParseBody parses a tracker body back into a partial item. It returns false
// when the required fields (name and category) are absent.
func ParseBody(body string) (*item.Item, bool) {
	fields := make(map[string]string)
	var description []string
	inDescription := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## 설명"):
			inDescription = true
		case strings.HasPrefix(trimmed, "##"):
			inDescription = false
		case inDescription:
			if trimmed != "" || len(description) > 0 {
				description = append(description, line)
			}
		case strings.HasPrefix(trimmed, "- "):
			kv := strings.SplitN(strings.TrimPrefix(trimmed, "- "), ":", 2)
			if len(kv) == 2 {
				fields[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
			}
		}
	}

	name := fields[labelName]
	category := fields[labelCategory]
	if name == "" || category == "" {
		return nil, false
	}

	result := &item.Item{
		Name:        name,
		Category:    item.ParseCategory(category),
		Brand:       fields[labelBrand],
		Material:    fields[labelMaterial],
		Fit:         fields[labelFit],
		OriginalURL: fields[labelURL],
		Description: strings.TrimSpace(strings.Join(description, "\n")),
		Colors:      splitList(fields[labelColors]),
		Sizes:       splitList(fields[labelSizes]),
	}
	if price, err := strconv.Atoi(fields[labelPrice]); err == nil {
		result.Price = price
	}
	result.Normalize()
	return result, true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Labels derives the tracker label set for an item: category, brand, first
// color and any free tags.
func Labels(it *item.Item, tags ...string) []string {
	labels := []string{
		"category:" + string(it.Category),
		"brand:" + it.Brand,
	}
	if len(it.Colors) > 0 {
		labels = append(labels, "color:"+it.Colors[0])
	}
	for _, tag := range tags {
		labels = append(labels, "tag:"+tag)
	}
	return labels
}
