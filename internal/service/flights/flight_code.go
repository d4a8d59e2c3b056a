package flights

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/Domenick1991/flightcatalog/internal/repository"
)

var codePrefixPattern = regexp.MustCompile(`^[A-Z0-9]{2,4}$`)

// FlightCodeService mints flight codes like "AF0007" from the per-airline
// sequence. The increment happens in a single atomic statement at the store,
// so concurrent requests never reuse a number.
type FlightCodeService struct {
	seq repository.SequenceRepository
}

func NewFlightCodeService(seq repository.SequenceRepository) *FlightCodeService {
	return &FlightCodeService{seq: seq}
}

func (s *FlightCodeService) NextFlightCode(ctx context.Context, rawPrefix string) (string, error) {
	if strings.TrimSpace(rawPrefix) == "" {
		return "", domain.BadRequest("airline prefix is required")
	}

	prefix := strings.ToUpper(strings.TrimSpace(rawPrefix))
	if !codePrefixPattern.MatchString(prefix) {
		return "", domain.BadRequest("invalid airline prefix: %s", prefix)
	}

	n, err := s.seq.NextValue(ctx, prefix)
	if err != nil {
		return "", err
	}
	if n <= 0 {
		return "", domain.Internal("sequence returned no value for prefix %s", prefix)
	}

	return fmt.Sprintf("%s%04d", prefix, n), nil
}
