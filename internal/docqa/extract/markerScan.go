package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/DocChat/internal/docqa/textkit"
	"golang.org/x/text/encoding/charmap"
)

var (
	// a text-show region never spans a line break
	textShowRegion  = regexp.MustCompile(`BT` + textkit.Space + `+[^\n\r]*?ET`)
	literalString   = regexp.MustCompile(`\(([^)]+)\)`)
	digitsAndSpaces = regexp.MustCompile(`^[0-9\t\n\v\f\r \x{00A0}]+$`)
	parenStripper   = strings.NewReplacer("(", "", ")", "")
)

// byteString maps every byte to the code point of the same value.
func byteString(data []byte) (string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("latin-1 decode: %w", err)
	}
	return string(decoded), nil
}

type markerScanStrategy struct{}

func (markerScanStrategy) Name() string { return StrategyMarkerScan }

func (markerScanStrategy) Extract(_ context.Context, data []byte) Result {
	text, err := byteString(data)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: MarkerScan(text)}
}

// MarkerScan collects the literal strings shown inside BT ... ET regions.
func MarkerScan(text string) string {
	var fragments []string
	for _, region := range textShowRegion.FindAllString(text, -1) {
		for _, literal := range literalString.FindAllString(region, -1) {
			clean := textkit.Trim(parenStripper.Replace(literal))
			if keepFragment(clean) {
				fragments = append(fragments, clean)
			}
		}
	}
	return strings.Join(fragments, " ")
}

func keepFragment(fragment string) bool {
	return textkit.Length(fragment) > 1 && !digitsAndSpaces.MatchString(fragment)
}
