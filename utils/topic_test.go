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

import "testing"

func TestParseTopicName(t *testing.T) {
	cases := []struct {
		input   string
		want    TopicName
		wantErr bool
	}{
		{
			input: "persistent://tenant/ns/topic",
			want:  TopicName{Persistent: true, Tenant: "tenant", Namespace: "ns", LocalName: "topic", Partition: -1},
		},
		{
			input: "non-persistent://tenant/ns/topic",
			want:  TopicName{Persistent: false, Tenant: "tenant", Namespace: "ns", LocalName: "topic", Partition: -1},
		},
		{
			input: "persistent://tenant/ns/topic-partition-3",
			want:  TopicName{Persistent: true, Tenant: "tenant", Namespace: "ns", LocalName: "topic", Partition: 3},
		},
		{
			input: "persistent://tenant/ns/topic-partition-x",
			want:  TopicName{Persistent: true, Tenant: "tenant", Namespace: "ns", LocalName: "topic-partition-x", Partition: -1},
		},
		{input: "tenant/ns/topic", wantErr: true},
		{input: "persistent://tenant/topic", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTopicName(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTopicName(%q) err = nil; error expected", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTopicName(%q) err = %v; nil expected", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTopicName(%q) = %+v; expected %+v", tc.input, got, tc.want)
		}
	}
}

func TestTopicName_String(t *testing.T) {
	tn := TopicName{Persistent: true, Tenant: "tenant", Namespace: "ns", LocalName: "topic", Partition: 2}
	if got, expected := tn.String(), "persistent://tenant/ns/topic-partition-2"; got != expected {
		t.Fatalf("String() = %q; expected %q", got, expected)
	}

	tn.Partition = -1
	tn.Persistent = false
	if got, expected := tn.String(), "non-persistent://tenant/ns/topic"; got != expected {
		t.Fatalf("String() = %q; expected %q", got, expected)
	}
}

func TestParseTopicName_RoundTrip(t *testing.T) {
	input := "persistent://tenant/ns/topic-partition-7"
	tn, err := ParseTopicName(input)
	if err != nil {
		t.Fatalf("ParseTopicName(%q) err = %v; nil expected", input, err)
	}
	if got := tn.String(); got != input {
		t.Fatalf("round trip = %q; expected %q", got, input)
	}
}
