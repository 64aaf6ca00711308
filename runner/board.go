package runner

// Board is the hardware the DUT sits on. A board may free-run the project
// clock by itself; the runner stops that before any test starts so it does
// not fight the virtual clocks.
type Board interface {
	IsAutoClocking() bool
	StopAutoClocking()

	// TestingDone is called once all tests have run, so the board can
	// restore its own drive mode.
	TestingDone()
}

// The DUT may implement any of the following to follow the run.

// TestingWillBeginNotifiee is told before the first test runs.
type TestingWillBeginNotifiee interface {
	TestingWillBegin()
}

// TestingUnitNotifiee is told before and after each test.
type TestingUnitNotifiee interface {
	TestingUnitStart(r Result)
	TestingUnitDone(r Result)
}

// TestingDoneNotifiee is told after the last test.
type TestingDoneNotifiee interface {
	TestingDone()
}
