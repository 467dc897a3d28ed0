package topic

import "strings"

// TopicMatcher tests whether a topic name satisfies a subscription filter
// under MQTT 3.1.1's wildcard rules: '+' matches exactly one level, '#'
// matches the remainder of the topic (including zero further levels) and
// may only appear as a filter's last level, and a topic whose first level
// starts with '$' never matches a filter whose first level is a wildcard.
type TopicMatcher struct{}

func NewTopicMatcher() *TopicMatcher {
	return &TopicMatcher{}
}

// Match reports whether topicName satisfies filter. Dispatch calls this once
// per registered filter for every inbound PUBLISH, so it walks both strings
// a level at a time instead of splitting either into a slice first.
func (tm *TopicMatcher) Match(filter, topicName string) bool {
	if strings.HasPrefix(topicName, "$") {
		if first, _, _ := cutLevel(filter); first == "+" || first == "#" {
			return false
		}
	}
	return matchLevel(filter, topicName)
}

// matchLevel consumes one '/'-delimited level from each of filter and
// topicName and recurses on the remainder, so the "#" and
// length-mismatch rules fall out of the base cases rather than a
// separate post-loop check.
func matchLevel(filter, topicName string) bool {
	filterHead, filterTail, filterHasMore := cutLevel(filter)
	if filterHead == "#" {
		return true
	}

	topicHead, topicTail, topicHasMore := cutLevel(topicName)
	if filterHead != "+" && filterHead != topicHead {
		return false
	}

	switch {
	case filterHasMore && topicHasMore:
		return matchLevel(filterTail, topicTail)
	case !filterHasMore && !topicHasMore:
		return true
	case filterHasMore && !topicHasMore:
		// topicName ran out first; the only way the rest of filter can
		// still match is a trailing "#", caught on the next level down.
		return filterTail == "#"
	default:
		return false
	}
}

// cutLevel splits s on its first '/', reporting whether one was found.
func cutLevel(s string) (head, tail string, hasMore bool) {
	if before, after, found := strings.Cut(s, "/"); found {
		return before, after, true
	}
	return s, "", false
}
