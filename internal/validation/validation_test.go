package validation

import (
	"reflect"
	"strings"
	"testing"
)

func TestSendLikesMissingFields(t *testing.T) {
	t.Run("reports all missing fields", func(t *testing.T) {
		_, err := SendLikes(SendLikesInput{})
		if err == nil {
			t.Fatal("expected error for empty payload")
		}
		required, ok := err.Context["required"].([]string)
		if !ok {
			t.Fatalf("expected required field list, got %#v", err.Context)
		}
		want := []string{"uid", "region", "accessToken"}
		if !reflect.DeepEqual(required, want) {
			t.Fatalf("unexpected required list: got %v want %v", required, want)
		}
	})

	t.Run("reports only the absent field", func(t *testing.T) {
		_, err := SendLikes(SendLikesInput{UID: "123", Region: "BR"})
		if err == nil {
			t.Fatal("expected error for missing accessToken")
		}
		required, _ := err.Context["required"].([]string)
		if len(required) != 1 || required[0] != "accessToken" {
			t.Fatalf("unexpected required list: %v", required)
		}
	})

	t.Run("missing fields checked before uid shape", func(t *testing.T) {
		_, err := SendLikes(SendLikesInput{UID: "abc"})
		if err == nil || err.Context["required"] == nil {
			t.Fatalf("expected missing-fields error, got %v", err)
		}
	})
}

func TestSendLikesInvalidUID(t *testing.T) {
	for _, uid := range []string{"abc123", "12 3", "12.3", "-123", "１２３"} {
		_, err := SendLikes(SendLikesInput{UID: uid, Region: "BR", AccessToken: "t"})
		if err == nil || !strings.Contains(err.Message, "only digits") {
			t.Fatalf("uid %q: expected digits error, got %v", uid, err)
		}
	}
}

func TestSendLikesInvalidRegion(t *testing.T) {
	_, err := SendLikes(SendLikesInput{UID: "123", Region: "XX", AccessToken: "t"})
	if err == nil {
		t.Fatal("expected error for unknown region")
	}
	regions, ok := err.Context["validRegions"].([]string)
	if !ok {
		t.Fatalf("expected validRegions context, got %#v", err.Context)
	}
	if len(regions) != 6 {
		t.Fatalf("expected 6 valid regions, got %v", regions)
	}
}

func TestSendLikesNormalizesRegion(t *testing.T) {
	for _, region := range []string{"br", "Br", "BR"} {
		got, err := SendLikes(SendLikesInput{UID: "123", Region: region, AccessToken: "t"})
		if err != nil {
			t.Fatalf("region %q: expected no error, got %v", region, err)
		}
		if got.Region != "BR" {
			t.Fatalf("region %q: expected BR, got %q", region, got.Region)
		}
		if got.UID != "123" || got.AccessToken != "t" {
			t.Fatalf("uid/accessToken must pass through unchanged: %+v", got)
		}
	}
}

func TestSendLikesAcceptsAllRegions(t *testing.T) {
	for _, region := range ValidRegions {
		if _, err := SendLikes(SendLikesInput{UID: "1", Region: region, AccessToken: "t"}); err != nil {
			t.Fatalf("region %q: expected no error, got %v", region, err)
		}
	}
}

func TestSendLikesIsDeterministic(t *testing.T) {
	in := SendLikesInput{UID: "42", Region: "oc", AccessToken: "tok"}
	first, err1 := SendLikes(in)
	second, err2 := SendLikes(in)
	if err1 != nil || err2 != nil {
		t.Fatalf("expected no errors, got %v / %v", err1, err2)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v / %+v", first, second)
	}
}
