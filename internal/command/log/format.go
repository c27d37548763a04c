package log

import (
	"fmt"
	"io"

	"github.com/keshon/lvc/internal/repo/meta"
)

// DateLayout renders commit timestamps in log output.
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// WriteEntry prints one commit the way log and global-log show it.
func WriteEntry(w io.Writer, c *meta.Commit) error {
	_, err := fmt.Fprintf(w, "===\ncommit %s\n", c.Hash)
	if err != nil {
		return err
	}
	if c.IsMerge() {
		first, second := c.ShortParents()
		if _, err := fmt.Fprintf(w, "Merge: %s %s\n", first, second); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "Date: %s\n%s\n\n", c.Timestamp.Local().Format(DateLayout), c.Message)
	return err
}
