package app

import (
	"context"
	"fmt"

	"cybercase-service/internal/domain"
)

// CaseRepository reads the seeded case filesystem. Children are returned in
// name-ascending order by every implementation.
type CaseRepository interface {
	Children(ctx context.Context, parentID *int64, includeHidden bool) ([]domain.FileNode, error)
	Node(ctx context.Context, id int64) (domain.FileNode, error)
	Metadata(ctx context.Context, nodeID int64) (domain.HiddenMetadata, bool, error)
	GroundTruth(ctx context.Context) (domain.CaseTruth, error)
}

// CaseService exposes the virtual case filesystem and its assessment grader.
type CaseService struct {
	files CaseRepository
}

func NewCaseService(files CaseRepository) *CaseService {
	return &CaseService{files: files}
}

// ListChildren lists the nodes under parentID (nil for root level). Hidden
// nodes are filtered out unless includeHidden is set.
func (s *CaseService) ListChildren(ctx context.Context, parentID *int64, includeHidden bool) ([]domain.FileNode, error) {
	return s.files.Children(ctx, parentID, includeHidden)
}

// GetNode looks a node up by id.
func (s *CaseService) GetNode(ctx context.Context, id int64) (domain.FileNode, error) {
	return s.files.Node(ctx, id)
}

// HiddenMetadata returns the embedded metadata of a node, or nil for the
// many nodes that carry none. The secret inside stays encoded.
func (s *CaseService) HiddenMetadata(ctx context.Context, nodeID int64) (domain.HiddenMetadata, error) {
	if _, err := s.files.Node(ctx, nodeID); err != nil {
		return nil, err
	}
	meta, ok, err := s.files.Metadata(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return meta, nil
}

// Extract lists the direct children of an archive node. Non-containers fail
// with ErrNotAContainer.
func (s *CaseService) Extract(ctx context.Context, nodeID int64) ([]domain.FileNode, error) {
	node, err := s.files.Node(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if !node.IsContainer() {
		return nil, domain.ErrNotAContainer
	}
	return s.files.Children(ctx, &node.ID, true)
}

// Grade scores three findings against the case ground truth. It is
// idempotent and side-effect free; the decoded phrase is optional and never
// penalized when absent.
func (s *CaseService) Grade(ctx context.Context, submission domain.Assessment) (domain.AssessmentResult, error) {
	truth, err := s.files.GroundTruth(ctx)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("load ground truth: %w", err)
	}

	result := domain.AssessmentResult{Feedback: []string{}}

	if submission.MalwareID == truth.MalwareID {
		result.Score++
		result.Feedback = append(result.Feedback,
			"Malware: correct. A double extension like .pdf.exe disguises an executable.")
	} else {
		result.Feedback = append(result.Feedback,
			"Malware: incorrect. Look for a double extension like .pdf.exe.")
	}

	if submission.SensitiveID == truth.SensitiveID {
		result.Score++
		result.Feedback = append(result.Feedback,
			"Sensitive data: correct. The hidden file revealed by Show Hidden holds the leak.")
	} else {
		result.Feedback = append(result.Feedback,
			"Sensitive data: incorrect. Hidden files can hide leaked data.")
	}

	switch {
	case submission.DecodedPhrase == "":
		result.Feedback = append(result.Feedback,
			"Decoded phrase: (optional) decode the Base64 from the image properties.")
	case submission.DecodedPhrase == truth.Secret:
		result.Score++
		result.Feedback = append(result.Feedback, "Decoded phrase: correct.")
	default:
		result.Feedback = append(result.Feedback,
			"Decoded phrase: not matching. Inspect the image metadata; the UserComment is encoded.")
	}

	if result.Score == 3 {
		result.Solved = true
		result.Secret = truth.Secret
		result.Feedback = append(result.Feedback, "Case solved! All findings are correct.")
	}
	return result, nil
}
