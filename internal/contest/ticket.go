// internal/contest/ticket.go
package contest

const (
	ticketMin = 100000
	ticketMax = 999999

	// MaxTicketsPerBatch bounds a single issuance request.
	MaxTicketsPerBatch = 10
)

// IssueTicket samples a uniform 6-digit ticket number, resampling until it
// collides with nothing in used. The caller passes the set of every ticket
// already issued in the lottery instance, across all participants.
func IssueTicket(src Source, used map[int]bool) int {
	for {
		n := ticketMin + src.Intn(ticketMax-ticketMin+1)
		if !used[n] {
			return n
		}
	}
}
