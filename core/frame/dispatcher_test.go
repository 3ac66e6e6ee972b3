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

package frame

import (
	"testing"

	"github.com/pulsarcore/go-client/pkg/api"
)

func testFrame(t api.BaseCommand_Type) Frame {
	return Frame{BaseCmd: &api.BaseCommand{Type: t.Enum()}}
}

func TestDispatcher_ReqID(t *testing.T) {
	d := NewFrameDispatcher()

	resp, cancel, err := d.RegisterReqID(7)
	if err != nil {
		t.Fatalf("RegisterReqID() err = %v; nil expected", err)
	}
	defer cancel()

	f := testFrame(api.BaseCommand_SUCCESS)
	if err := d.NotifyReqID(7, f); err != nil {
		t.Fatalf("NotifyReqID() err = %v; nil expected", err)
	}

	select {
	case got := <-resp:
		if got.BaseCmd.GetType() != api.BaseCommand_SUCCESS {
			t.Fatalf("got frame type %s; expected SUCCESS", got.BaseCmd.GetType())
		}
	default:
		t.Fatal("expected the notified frame on the registered channel")
	}
}

func TestDispatcher_ReqID_DuplicateRegistration(t *testing.T) {
	d := NewFrameDispatcher()

	_, cancel, err := d.RegisterReqID(7)
	if err != nil {
		t.Fatalf("RegisterReqID() err = %v; nil expected", err)
	}
	defer cancel()

	if _, _, err := d.RegisterReqID(7); err == nil {
		t.Fatal("expected duplicate RegisterReqID to fail")
	}
}

func TestDispatcher_ReqID_UnknownIDDropped(t *testing.T) {
	d := NewFrameDispatcher()

	if err := d.NotifyReqID(99, testFrame(api.BaseCommand_SUCCESS)); err == nil {
		t.Fatal("expected NotifyReqID for an unregistered id to fail")
	}
}

func TestDispatcher_ReqID_CancelFreesSlot(t *testing.T) {
	d := NewFrameDispatcher()

	_, cancel, err := d.RegisterReqID(7)
	if err != nil {
		t.Fatalf("RegisterReqID() err = %v; nil expected", err)
	}
	cancel()

	if err := d.NotifyReqID(7, testFrame(api.BaseCommand_SUCCESS)); err == nil {
		t.Fatal("expected NotifyReqID after cancel to fail")
	}

	if _, cancel2, err := d.RegisterReqID(7); err != nil {
		t.Fatalf("re-registering a canceled id err = %v; nil expected", err)
	} else {
		cancel2()
	}
}

func TestDispatcher_ProdSeqIDs(t *testing.T) {
	d := NewFrameDispatcher()

	resp, cancel, err := d.RegisterProdSeqIDs(1, 2)
	if err != nil {
		t.Fatalf("RegisterProdSeqIDs() err = %v; nil expected", err)
	}
	defer cancel()

	if err := d.NotifyProdSeqIDs(1, 2, testFrame(api.BaseCommand_SEND_RECEIPT)); err != nil {
		t.Fatalf("NotifyProdSeqIDs() err = %v; nil expected", err)
	}

	select {
	case got := <-resp:
		if got.BaseCmd.GetType() != api.BaseCommand_SEND_RECEIPT {
			t.Fatalf("got frame type %s; expected SEND_RECEIPT", got.BaseCmd.GetType())
		}
	default:
		t.Fatal("expected the notified frame on the registered channel")
	}

	if err := d.NotifyProdSeqIDs(1, 3, testFrame(api.BaseCommand_SEND_RECEIPT)); err == nil {
		t.Fatal("expected NotifyProdSeqIDs for an unregistered sequence to fail")
	}
}

func TestDispatcher_Global(t *testing.T) {
	d := NewFrameDispatcher()

	resp, cancel, err := d.RegisterGlobal()
	if err != nil {
		t.Fatalf("RegisterGlobal() err = %v; nil expected", err)
	}

	if _, _, err := d.RegisterGlobal(); err == nil {
		t.Fatal("expected a second RegisterGlobal to fail while the first is outstanding")
	}

	if err := d.NotifyGlobal(testFrame(api.BaseCommand_CONNECTED)); err != nil {
		t.Fatalf("NotifyGlobal() err = %v; nil expected", err)
	}

	select {
	case got := <-resp:
		if got.BaseCmd.GetType() != api.BaseCommand_CONNECTED {
			t.Fatalf("got frame type %s; expected CONNECTED", got.BaseCmd.GetType())
		}
	default:
		t.Fatal("expected the notified frame on the global channel")
	}

	cancel()
	if _, cancel2, err := d.RegisterGlobal(); err != nil {
		t.Fatalf("RegisterGlobal() after cancel err = %v; nil expected", err)
	} else {
		cancel2()
	}
}
