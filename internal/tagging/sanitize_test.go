package tagging_test

import (
	"reflect"
	"testing"

	"galleria/internal/tagging"
)

func TestSanitizeTags(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "mixed junk",
			raw:  []string{"Cat", " ocean!!", "a", "12abc", "red"},
			want: []string{"cat", "ocean", "red"},
		},
		{
			name: "dedupe keeps first order",
			raw:  []string{"Sky", "blue", "sky", "BLUE", "cloud"},
			want: []string{"sky", "blue", "cloud"},
		},
		{
			name: "stop words dropped",
			raw:  []string{"the", "and", "mountain", "with", "snow"},
			want: []string{"mountain", "snow"},
		},
		{
			name: "short and digit tokens dropped",
			raw:  []string{"ab", "x", "4k", "forest2", "tree"},
			want: []string{"tree"},
		},
		{
			name: "cap at ten",
			raw: []string{
				"one", "two", "three", "four", "five", "six",
				"seven", "eight", "nine", "ten", "eleven", "twelve",
			},
			want: []string{
				"one", "two", "three", "four", "five", "six",
				"seven", "eight", "nine", "ten",
			},
		},
		{
			name: "overlong token dropped",
			raw:  []string{"supercalifragilisticexpialidocious", "dog"},
			want: []string{"dog"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tagging.SanitizeTags(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SanitizeTags(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
