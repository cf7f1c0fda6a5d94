package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"reguguard-backend/models"

	"github.com/gowebpki/jcs"
)

// ReportDigest is the SHA-256 of the report's canonical (RFC 8785) JSON form.
func ReportDigest(report *models.Report) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize report: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyDigest reports whether the stored digest still matches the stored report.
// Records without a digest verify as false.
func VerifyDigest(rec *models.HistoryRecord) (bool, error) {
	if rec.ReportDigest == "" || rec.FullAnalysis == nil {
		return false, nil
	}
	digest, err := ReportDigest(rec.FullAnalysis)
	if err != nil {
		return false, err
	}
	return digest == rec.ReportDigest, nil
}
