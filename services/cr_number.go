package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCRNumber creates a change request reference number.
// Format: CR-{YYYYMM}-{8 char fragment}, e.g. "CR-202608-3FA85F64".
// The fragment comes from a random UUID, so numbers need no sequence
// lookup and stay unique even when requests are raised concurrently.
func GenerateCRNumber(now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CR-%s-%s", now.Format("200601"), frag)
}
