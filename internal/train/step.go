package train

import "github.com/jabolina/go-trains/internal/protocol"

// Step executes one logic tick: advance election timers, consume at most
// one queued message, apply election-start/election-finish transitions,
// move, and react to arrival at the current goal.
func (t *Train) Step() {
	t.tickPendingTimers()
	t.consumeOneMessage()
	t.tickElectionStart()
	t.tickElectionFinish()
	t.move()
	t.handleArrival()
}

// tickPendingTimers advances delayT (pre-election) or msgWait (in-election)
// by one each tick, per §4.4.
func (t *Train) tickPendingTimers() {
	if t.pending == nil {
		return
	}
	if !t.pending.inElections {
		t.pending.delayT++
	} else {
		t.pending.msgWait++
	}
}

// consumeOneMessage pops at most one message from the inbox's head and
// processes it, the FIFO-per-receiver discipline from §5.
func (t *Train) consumeOneMessage() {
	if len(t.inbox) == 0 {
		return
	}
	entry := t.inbox[0]
	t.inbox = t.inbox[1:]

	msg, err := protocol.Decode(entry.raw)
	if err != nil {
		t.log.Warnf("train %s: dropping malformed message: %v", t.id, err)
		return
	}
	t.processMessage(msg)
}

// tickElectionStart implements "Election start": once delayT reaches the
// train's randomized delayWanted, broadcast ELEC.
func (t *Train) tickElectionStart() {
	if t.pending == nil || t.pending.inElections {
		return
	}
	if t.pending.delayT == t.delayWanted {
		t.broadcastElec()
	}
}

// tickElectionFinish implements "Election finish": once msgWait reaches
// msgWaitMax with no silencer heard, this train wins.
func (t *Train) tickElectionFinish() {
	if t.pending == nil || !t.pending.inElections {
		return
	}
	if t.pending.msgWait != msgWaitMax {
		return
	}

	won := *t.pending
	route := won.route
	if len(t.path) > 0 && len(route) > 0 && t.path[len(t.path)-1].Equal(route[0]) {
		// The won route starts at expectedArrivalPoint(), already the last
		// vertex of the committed path: skip it to avoid a duplicate stop.
		route = route[1:]
	}
	t.path = append(t.path, route...)
	t.queue = append(t.queue, ride{clientID: won.clientID, pickup: won.pickup, dropoff: won.dropoff})
	t.pending = nil

	t.metrics.ElectionWon(string(t.id))
	t.broadcastLeaderAndAnswer(won.clientID)

	if t.mode == ModeWait {
		t.mode = ModeAccept
		t.currentGoal = t.queue[0].pickup
		t.haveGoal = true
	}
}
