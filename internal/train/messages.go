package train

import (
	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/protocol"
)

func (t *Train) sendReqAck(clientID devices.ID) {
	msg := protocol.Message{
		Type:     protocol.REQAck,
		Sender:   t.id,
		Receiver: clientID,
		ClientID: clientID,
	}
	t.bus.Broadcast(msg.Encode(), t, string(protocol.REQAck))
}

func (t *Train) broadcastElec() {
	dist := t.pending.simpleD + t.fullPathDistance()
	msg := protocol.Message{
		Type:     protocol.Elec,
		Sender:   t.id,
		ClientID: t.pending.clientID,
		Distance: dist,
	}
	t.pending.inElections = true
	t.pending.msgWait = 0
	t.metrics.ElectionStarted(string(t.id))
	t.bus.Broadcast(msg.Encode(), t, string(protocol.Elec))
}

func (t *Train) sendElecAck(to, clientID devices.ID) {
	msg := protocol.Message{
		Type:     protocol.ElecAck,
		Sender:   t.id,
		Receiver: to,
		ClientID: clientID,
	}
	t.bus.Broadcast(msg.Encode(), t, string(protocol.ElecAck))
}

func (t *Train) broadcastLeaderAndAnswer(clientID devices.ID) {
	leader := protocol.Message{
		Type:     protocol.Leader,
		Sender:   t.id,
		ClientID: clientID,
	}
	t.bus.Broadcast(leader.Encode(), t, string(protocol.Leader))

	answer := protocol.Message{
		Type:     protocol.ReqAns,
		Sender:   t.id,
		Receiver: clientID,
		ClientID: clientID,
	}
	t.bus.Broadcast(answer.Encode(), t, string(protocol.ReqAns))
}
