// Command podforge is the CLI for the podforge pipeline. It registers
// uploaded audio as projects, inspects and manages them, requests
// generation retries, and reports daemon status. The CLI shares the
// daemon's SQLite database; mutations take effect on the daemon's next
// poll.
package main
