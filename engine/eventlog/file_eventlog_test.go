package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileEventLog_Publish(t *testing.T) {
	var (
		req      = require.New(t)
		dataFile = "/tmp/ajo_msig_test_eventlog_data"
		lockFile = "/tmp/ajo_msig_test_eventlog_lock"
	)
	defer os.Remove(dataFile)
	defer os.Remove(lockFile)

	log, err := NewFileEventLog(dataFile, lockFile)
	req.NoError(err)

	events := []Event{
		{Kind: EventProposalCreated, GroupID: "group_1", ProposalID: "proposal_1"},
		{Kind: EventProposalSigned, GroupID: "group_1", ProposalID: "proposal_1"},
	}
	req.NoError(log.Publish(events...))
	req.NoError(log.Close())

	f, err := os.Open(dataFile)
	req.NoError(err)
	defer f.Close()

	var lines []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event Event
		req.NoError(json.Unmarshal(scanner.Bytes(), &event))
		lines = append(lines, event)
	}
	req.NoError(scanner.Err())
	req.Len(lines, 2)

	req.Equal(EventProposalCreated, lines[0].Kind)
	req.Equal(EventProposalSigned, lines[1].Kind)

	// Missing ids and timestamps are filled in on publish.
	for _, event := range lines {
		req.NotEmpty(event.ID)
		req.False(event.CreatedAt.IsZero())
	}
}
