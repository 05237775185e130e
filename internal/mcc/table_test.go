package mcc

import "testing"

func TestNewPortTableStartsAllDummy(t *testing.T) {
	tbl := NewPortTable(DefaultPortCount)
	if tbl.Count() != DefaultPortCount {
		t.Fatalf("count = %d, want %d", tbl.Count(), DefaultPortCount)
	}
	for i := 0; i < tbl.Count(); i++ {
		if tbl.Port(i).Kind != LibraryDummy {
			t.Fatalf("port %d kind = %v, want Dummy", i, tbl.Port(i).Kind)
		}
	}
}

func TestDummyPortTickIsNoop(t *testing.T) {
	p := NewDummyPort(0)
	p.Tick(DriveRequest{Version: 1, Kind: DriveKindPower, Power: 100})
	if p.Status() != StatusNormal {
		t.Fatalf("dummy port status = %v, want Normal", p.Status())
	}
	if p.StatusBytes() != ([11]byte{}) {
		t.Fatal("dummy port status bytes must be all-zero")
	}
}

func TestSetDriveRequestStoresLatestForTickAll(t *testing.T) {
	tbl := NewPortTable(2)
	tbl.Port(0).LoadDc(testDcConfig(), 720)
	if !tbl.SetDriveRequest(0, DriveRequest{Version: 1, Kind: DriveKindPower, Power: 50}) {
		t.Fatal("expected SetDriveRequest to accept a valid port index")
	}
	if tbl.SetDriveRequest(5, DriveRequest{}) {
		t.Fatal("expected SetDriveRequest to reject an out-of-range index")
	}
	tbl.TickAll()
	if tbl.Port(0).DC().lastPWM == 0 {
		t.Fatal("expected the stored drive request to have driven the motor")
	}
}
