package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

var reGrams = regexp.MustCompile(`(\d+) ?g\b`)

// ParseLine converts one line into a Product.
//
// The first "<digits>g" or "<digits> g" token outside parentheses is the
// amount. When there is none, a quantity written inside a parenthetical unit
// such as "(400g)" is used instead. Lines without any quantity get amount 0.
// Later quantity-like tokens stay in the name.
func ParseLine(line string) Product {
	units := strings.Join(reParenthesis.FindAllString(line, -1), " ")
	text := RemoveUnits(line)

	amount, token := findAmount(text)
	if token != "" {
		text = strings.Replace(text, token, "", 1)
	} else {
		amount, _ = findAmount(units)
	}

	return Product{Name: cleanName(text), Amount: amount}
}

// ParseText splits raw text into products, one per non-empty line. Lines
// that leave no name after parsing are dropped.
func ParseText(text string) []Product {
	text = SplitItems(NormalizeText(text))

	var products []Product
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := ParseLine(line)
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}

func findAmount(text string) (int, string) {
	m := reGrams.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, ""
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ""
	}
	return amount, m[0]
}

func cleanName(text string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, " , ", " ")
	text = strings.Join(strings.Fields(text), " ")
	return strings.Trim(text, " ,;")
}
