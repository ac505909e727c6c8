package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"
)

func TestFormatShortfall(t *testing.T) {
	tests := map[string]struct {
		supervisors int32
		officers    int32
		expected    string
	}{
		"两项都缺": {supervisors: 2, officers: 1, expected: "2 Supervisor(s), 1 Officer(s)"},
		"只缺主管": {supervisors: 1, officers: 0, expected: "1 Supervisor(s)"},
		"只缺警员": {supervisors: 0, officers: 3, expected: "3 Officer(s)"},
		"不缺人":  {supervisors: 0, officers: 0, expected: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, utils.FormatShortfall(tt.supervisors, tt.officers))
		})
	}
}
