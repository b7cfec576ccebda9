package domain

import (
	"errors"
	"strings"
)

// Topics are named broadcast groups. Three kinds exist, distinguished by
// prefix: subject-scoped (auto-populated per connection), role-scoped
// (auto-populated for admins), and resource-scoped (joined only by explicit
// client subscription). A fixed global feed carries every availability
// change regardless of lot.
const (
	TopicRoleAdmin          = "role:admin"
	TopicGlobalResourceFeed = "resource-updates-global"

	subjectTopicPrefix  = "subject:"
	resourceTopicPrefix = "resource:"
)

var (
	ErrInvalidTopic   = errors.New("invalid topic name")
	ErrForbiddenTopic = errors.New("forbidden topic")
)

// SubjectTopic names the per-subject broadcast group.
func SubjectTopic(subjectID string) string {
	return subjectTopicPrefix + subjectID
}

// ResourceTopic names the broadcast group for one parking lot.
func ResourceTopic(lotID string) string {
	return resourceTopicPrefix + lotID
}

// ValidTopic reports whether the name matches one of the known topic shapes.
// Free-form names are rejected at the index boundary so a typo surfaces as an
// error event instead of a silently unreachable group.
func ValidTopic(topic string) bool {
	topic = strings.TrimSpace(topic)
	switch {
	case topic == TopicRoleAdmin, topic == TopicGlobalResourceFeed:
		return true
	case strings.HasPrefix(topic, subjectTopicPrefix):
		return len(topic) > len(subjectTopicPrefix)
	case strings.HasPrefix(topic, resourceTopicPrefix):
		return len(topic) > len(resourceTopicPrefix)
	default:
		return false
	}
}

// AuthorizeSubscription decides whether a connection may join a topic by
// explicit request. Resource topics and the global feed are open to every
// authenticated connection; the admin topic requires the admin role; a
// subject topic belongs to exactly one subject and is only re-joinable by
// that subject (a duplicate membership collapses in the index anyway).
func AuthorizeSubscription(role Role, subjectID, topic string) error {
	topic = strings.TrimSpace(topic)
	if !ValidTopic(topic) {
		return ErrInvalidTopic
	}
	switch {
	case topic == TopicRoleAdmin:
		if role != RoleAdmin {
			return ErrForbiddenTopic
		}
	case strings.HasPrefix(topic, subjectTopicPrefix):
		if topic != SubjectTopic(subjectID) {
			return ErrForbiddenTopic
		}
	}
	return nil
}
