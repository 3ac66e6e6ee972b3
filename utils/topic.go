// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// TopicName is a parsed `persistent|non-persistent://tenant/namespace/topic[-partition-N]`
// address.
type TopicName struct {
	Persistent bool
	Tenant     string
	Namespace  string
	LocalName  string

	// Partition is the partition index encoded in a "-partition-N" suffix,
	// or -1 if the topic name carries none.
	Partition int32
}

// String reconstructs the fully-qualified topic name, including any
// partition suffix.
func (t TopicName) String() string {
	scheme := "persistent"
	if !t.Persistent {
		scheme = "non-persistent"
	}
	name := fmt.Sprintf("%s://%s/%s/%s", scheme, t.Tenant, t.Namespace, t.LocalName)
	if t.Partition >= 0 {
		name += fmt.Sprintf("-partition-%d", t.Partition)
	}
	return name
}

// ParseTopicName parses a fully-qualified Pulsar topic name of the form
// `persistent|non-persistent://tenant/namespace/topic[-partition-N]`.
func ParseTopicName(topic string) (TopicName, error) {
	var t TopicName
	t.Partition = -1

	var rest string
	switch {
	case strings.HasPrefix(topic, "persistent://"):
		t.Persistent = true
		rest = strings.TrimPrefix(topic, "persistent://")
	case strings.HasPrefix(topic, "non-persistent://"):
		t.Persistent = false
		rest = strings.TrimPrefix(topic, "non-persistent://")
	default:
		return t, fmt.Errorf("topic name %q must begin with persistent:// or non-persistent://", topic)
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 {
		return t, fmt.Errorf("topic name %q must have the form scheme://tenant/namespace/topic", topic)
	}
	t.Tenant, t.Namespace, t.LocalName = parts[0], parts[1], parts[2]

	if idx := strings.LastIndex(t.LocalName, "-partition-"); idx >= 0 {
		n, err := strconv.Atoi(t.LocalName[idx+len("-partition-"):])
		if err == nil {
			t.Partition = int32(n)
			t.LocalName = t.LocalName[:idx]
		}
	}

	return t, nil
}
