package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateIndoFormats(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"17-08-1995", time.Date(1995, time.August, 17, 0, 0, 0, 0, time.UTC)},
		{"17/08/1995", time.Date(1995, time.August, 17, 0, 0, 0, 0, time.UTC)},
		{"1995-08-17", time.Date(1995, time.August, 17, 0, 0, 0, 0, time.UTC)},
		{"1995/8/7", time.Date(1995, time.August, 7, 0, 0, 0, 0, time.UTC)},
		{"2003", time.Date(2003, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"  2003  ", time.Date(2003, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"2019-05-04T00:00:00Z", time.Date(2019, time.May, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ParseDateIndo(tc.input)
		require.NotNil(t, got, tc.input)
		assert.True(t, got.Equal(tc.want), "%s parsed to %v", tc.input, got)
	}
}

func TestParseDateIndoRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "99", "32-01-2020", "01-13-2020", "20200101"} {
		assert.Nil(t, ParseDateIndo(input), input)
	}
}
