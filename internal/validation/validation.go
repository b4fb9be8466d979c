package validation

import (
	"regexp"
	"strings"

	"github.com/likes-relay-service/internal/service"
)

// ValidRegions is the fixed set of regions accepted by the external API.
var ValidRegions = []string{"BR", "NA", "SA", "EU", "AS", "OC"}

var uidPattern = regexp.MustCompile(`^[0-9]+$`)

// SendLikesInput is the caller-supplied send-likes payload.
type SendLikesInput struct {
	UID         string `json:"uid"`
	Region      string `json:"region"`
	AccessToken string `json:"accessToken"`
}

// SendLikes validates and normalizes a send-likes payload. It is a pure
// function: no I/O, deterministic given its input. On success the region is
// upper-cased; uid and accessToken pass through unchanged.
//
// Checks run in order: missing fields first (the error lists every absent
// field), then uid shape, then region membership.
func SendLikes(in SendLikesInput) (SendLikesInput, *service.Error) {
	var missing []string
	if in.UID == "" {
		missing = append(missing, "uid")
	}
	if in.Region == "" {
		missing = append(missing, "region")
	}
	if in.AccessToken == "" {
		missing = append(missing, "accessToken")
	}
	if len(missing) > 0 {
		return SendLikesInput{}, service.NewBadRequest("Missing required fields").
			With("required", missing)
	}

	if !uidPattern.MatchString(in.UID) {
		return SendLikesInput{}, service.NewBadRequest("UID must contain only digits")
	}

	region := strings.ToUpper(in.Region)
	if !isValidRegion(region) {
		return SendLikesInput{}, service.NewBadRequest("Invalid region").
			With("validRegions", ValidRegions)
	}

	in.Region = region
	return in, nil
}

func isValidRegion(region string) bool {
	for _, r := range ValidRegions {
		if region == r {
			return true
		}
	}
	return false
}
