package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logrus.Level
	}{
		{level: "trace", expected: logrus.TraceLevel},
		{level: "debug", expected: logrus.DebugLevel},
		{level: "info", expected: logrus.InfoLevel},
		{level: "warn", expected: logrus.WarnLevel},
		{level: "warning", expected: logrus.WarnLevel},
		{level: "error", expected: logrus.ErrorLevel},
		{level: "fatal", expected: logrus.FatalLevel},
		{level: "DEBUG", expected: logrus.DebugLevel},
		// unknown values fall back to info
		{level: "chatty", expected: logrus.InfoLevel},
		{level: "", expected: logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetLevel(tc.level))
		})
	}
}
