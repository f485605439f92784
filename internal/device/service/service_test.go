package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/smallbiznis/lunebill/internal/config"
	"github.com/smallbiznis/lunebill/internal/device/domain"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

func newMatcher(mode domain.MatchMode) domain.Matcher {
	return NewService(ServiceParam{
		Log: zap.NewNop(),
		Cfg: config.Config{MatchMode: mode},
	})
}

func TestRecordsForDeviceExactMode(t *testing.T) {
	device := domain.Device{SerialNumber: "LN-1042", OfficeID: "office-1"}
	feed := []usagedomain.UsageRecord{
		{TransactionID: "t1", DeviceID: "LN-1042"},
		{TransactionID: "t2", DeviceID: "xx-LN-1042-yy"},
		{TransactionID: "t3", DeviceID: "LN-2000", SBC: "LN-1042"},
		{TransactionID: "t4", DeviceID: "LN-2000"},
	}

	matched := newMatcher(domain.MatchModeExact).RecordsForDevice(context.Background(), device, feed)

	assert.Len(t, matched, 2)
	assert.Equal(t, "t1", matched[0].TransactionID)
	assert.Equal(t, "t3", matched[1].TransactionID)
}

func TestRecordsForDeviceSubstringMode(t *testing.T) {
	device := domain.Device{SerialNumber: "LN-1042", OfficeID: "office-1"}
	feed := []usagedomain.UsageRecord{
		{TransactionID: "t1", DeviceID: "LN-1042"},
		{TransactionID: "t2", DeviceID: "xx-LN-1042-yy"},
		{TransactionID: "t3", DeviceID: "LN-2000", SBC: "sbc/LN-1042"},
		{TransactionID: "t4", DeviceID: "LN-2000"},
	}

	matched := newMatcher(domain.MatchModeSubstring).RecordsForDevice(context.Background(), device, feed)

	assert.Len(t, matched, 3)
	assert.Equal(t, "t1", matched[0].TransactionID)
	assert.Equal(t, "t2", matched[1].TransactionID)
	assert.Equal(t, "t3", matched[2].TransactionID)
}

func TestRecordsForDeviceEmptySerialMatchesNothing(t *testing.T) {
	feed := []usagedomain.UsageRecord{{TransactionID: "t1", DeviceID: "LN-1042"}}

	matched := newMatcher(domain.MatchModeSubstring).RecordsForDevice(context.Background(), domain.Device{}, feed)

	assert.Empty(t, matched)
}

func TestParseMatchMode(t *testing.T) {
	assert.Equal(t, domain.MatchModeExact, domain.ParseMatchMode(""))
	assert.Equal(t, domain.MatchModeExact, domain.ParseMatchMode("exact"))
	assert.Equal(t, domain.MatchModeSubstring, domain.ParseMatchMode("substring"))
	assert.Equal(t, domain.MatchModeSubstring, domain.ParseMatchMode(" SUBSTRING "))
	assert.Equal(t, domain.MatchModeExact, domain.ParseMatchMode("fuzzy"))
}
