package arena

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if int(t) >= len(nodeTypeStr) {
		return nil, errors.Errorf("invalid node type %d", uint8(t))
	}

	return []byte(nodeTypeStr[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(text []byte) error {
	for i, s := range nodeTypeStr {
		if s == string(text) {
			*t = NodeType(i)
			return nil
		}
	}

	return errors.Errorf("unknown node type %q", text)
}

type playerDataJSON struct {
	RegretMatcher json.RawMessage `json:"regret_matcher"`
	PlayerIdx     *int            `json:"player_idx"`
}

// MarshalJSON implements json.Marshaler.
// The regret matcher is always written as null.
func (pd PlayerData) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerDataJSON{
		RegretMatcher: json.RawMessage("null"),
		PlayerIdx:     &pd.PlayerIdx,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The decoded PlayerData never has a regret matcher.
func (pd *PlayerData) UnmarshalJSON(buf []byte) error {
	var doc playerDataJSON
	if err := json.Unmarshal(buf, &doc); err != nil {
		return err
	}

	if doc.PlayerIdx == nil {
		return errors.New("player data is missing player_idx")
	}

	pd.RegretMatcher = nil
	pd.PlayerIdx = *doc.PlayerIdx
	return nil
}

// GobEncode implements gob.GobEncoder.
func (pd PlayerData) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(pd.PlayerIdx); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (pd *PlayerData) GobDecode(buf []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(buf))
	var playerIdx int
	if err := dec.Decode(&playerIdx); err != nil {
		return err
	}

	pd.RegretMatcher = nil
	pd.PlayerIdx = playerIdx
	return nil
}

type nodeDataJSON struct {
	Type     NodeType      `json:"type"`
	Player   *PlayerData   `json:"player,omitempty"`
	Terminal *TerminalData `json:"terminal,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d NodeData) MarshalJSON() ([]byte, error) {
	doc := nodeDataJSON{Type: d.Type}
	switch d.Type {
	case PlayerNode:
		doc.Player = d.Player
	case TerminalNode:
		doc.Terminal = d.Terminal
	}

	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *NodeData) UnmarshalJSON(buf []byte) error {
	var doc nodeDataJSON
	if err := json.Unmarshal(buf, &doc); err != nil {
		return err
	}

	result, err := newNodeData(doc.Type, doc.Player, doc.Terminal)
	if err != nil {
		return err
	}

	*d = result
	return nil
}

func newNodeData(t NodeType, pd *PlayerData, td *TerminalData) (NodeData, error) {
	switch t {
	case RootNode:
		return RootNodeData(), nil
	case ChanceNode:
		return ChanceNodeData(), nil
	case PlayerNode:
		if pd == nil {
			return NodeData{}, errors.New("player node is missing player data")
		}
		return PlayerNodeData(*pd), nil
	case TerminalNode:
		if td == nil {
			return NodeData{}, errors.New("terminal node is missing terminal data")
		}
		return TerminalNodeData(*td), nil
	default:
		return NodeData{}, errors.Errorf("invalid node type %d", uint8(t))
	}
}

type nodeJSON struct {
	Idx            int      `json:"idx"`
	Data           NodeData `json:"data"`
	Parent         *int     `json:"parent"`
	ParentChildIdx *int     `json:"parent_child_idx"`
	Children       []*int   `json:"children"`
	Count          []uint32 `json:"count"`
}

// MarshalJSON implements json.Marshaler.
//
// The edge table is written as a variable-length list with trailing unset
// edges and zero counts omitted.
func (n Node) MarshalJSON() ([]byte, error) {
	doc := nodeJSON{
		Idx:   n.Idx,
		Data:  n.Data,
		Count: trimCounts(n.count[:]),
	}

	if parent, ok := n.Parent(); ok {
		doc.Parent = &parent
	}

	if edge, ok := n.ParentChildIdx(); ok {
		doc.ParentChildIdx = &edge
	}

	children := trimChildren(n.children[:])
	doc.Children = make([]*int, len(children))
	for i, c := range children {
		if c != noChild {
			child := int(c)
			doc.Children[i] = &child
		}
	}

	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Edges and counts missing from the end of the lists are unset and zero.
func (n *Node) UnmarshalJSON(buf []byte) error {
	var doc nodeJSON
	if err := json.Unmarshal(buf, &doc); err != nil {
		return err
	}

	if len(doc.Children) > NumEdges || len(doc.Count) > NumEdges {
		return errors.Errorf("node %d: edge table has %d children and %d counts, max is %d",
			doc.Idx, len(doc.Children), len(doc.Count), NumEdges)
	}

	result := Node{
		Idx:            doc.Idx,
		Data:           doc.Data,
		parent:         noChild,
		parentChildIdx: noChild,
	}
	result.clearChildren()

	if doc.Parent != nil {
		result.parent = *doc.Parent
	}

	if doc.ParentChildIdx != nil {
		result.parentChildIdx = *doc.ParentChildIdx
	}

	for i, c := range doc.Children {
		if c == nil {
			continue
		}

		if *c < 0 || *c > math.MaxInt32 {
			return errors.Errorf("node %d: edge %d has invalid child %d", doc.Idx, i, *c)
		}

		result.children[i] = int32(*c)
	}

	copy(result.count[:], doc.Count)
	*n = result
	return nil
}

type nodeGob struct {
	Idx            int
	Type           NodeType
	PlayerIdx      int
	TotalUtility   float32
	Parent         int
	ParentChildIdx int
	Children       []int32
	Count          []uint32
}

// GobEncode implements gob.GobEncoder.
func (n Node) GobEncode() ([]byte, error) {
	doc := nodeGob{
		Idx:            n.Idx,
		Type:           n.Data.Type,
		Parent:         n.parent,
		ParentChildIdx: n.parentChildIdx,
		Children:       trimChildren(n.children[:]),
		Count:          trimCounts(n.count[:]),
	}

	switch n.Data.Type {
	case PlayerNode:
		doc.PlayerIdx = n.Data.Player.PlayerIdx
	case TerminalNode:
		doc.TotalUtility = n.Data.Terminal.TotalUtility
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (n *Node) GobDecode(buf []byte) error {
	var doc nodeGob
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&doc); err != nil {
		return err
	}

	if len(doc.Children) > NumEdges || len(doc.Count) > NumEdges {
		return errors.Errorf("node %d: edge table has %d children and %d counts, max is %d",
			doc.Idx, len(doc.Children), len(doc.Count), NumEdges)
	}

	data, err := newNodeData(doc.Type,
		&PlayerData{PlayerIdx: doc.PlayerIdx},
		&TerminalData{TotalUtility: doc.TotalUtility})
	if err != nil {
		return errors.Wrapf(err, "node %d", doc.Idx)
	}

	result := Node{
		Idx:            doc.Idx,
		Data:           data,
		parent:         doc.Parent,
		parentChildIdx: doc.ParentChildIdx,
	}
	result.clearChildren()
	for i, c := range doc.Children {
		if c < noChild {
			return errors.Errorf("node %d: edge %d has invalid child %d", doc.Idx, i, c)
		}

		result.children[i] = c
	}

	copy(result.count[:], doc.Count)
	*n = result
	return nil
}

func trimChildren(children []int32) []int32 {
	n := len(children)
	for n > 0 && children[n-1] == noChild {
		n--
	}

	return append([]int32(nil), children[:n]...)
}

func trimCounts(count []uint32) []uint32 {
	n := len(count)
	for n > 0 && count[n-1] == 0 {
		n--
	}

	return append([]uint32(nil), count[:n]...)
}

type cfrStateDoc struct {
	StartingGameState GameState `json:"starting_game_state"`
	Nodes             []Node    `json:"nodes"`
}

// MarshalJSON implements json.Marshaler.
func (s *CFRState) MarshalJSON() ([]byte, error) {
	return json.Marshal(cfrStateDoc{
		StartingGameState: s.startingGameState,
		Nodes:             s.nodes,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *CFRState) UnmarshalJSON(buf []byte) error {
	var doc cfrStateDoc
	if err := json.Unmarshal(buf, &doc); err != nil {
		return err
	}

	return s.fromDoc(doc)
}

// GobEncode implements gob.GobEncoder.
func (s *CFRState) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	err := enc.Encode(cfrStateDoc{
		StartingGameState: s.startingGameState,
		Nodes:             s.nodes,
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *CFRState) GobDecode(buf []byte) error {
	var doc cfrStateDoc
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&doc); err != nil {
		return err
	}

	return s.fromDoc(doc)
}

func (s *CFRState) fromDoc(doc cfrStateDoc) error {
	result := CFRState{
		startingGameState: doc.StartingGameState,
		nodes:             doc.Nodes,
	}

	if err := result.validate(); err != nil {
		return errors.Wrap(err, "invalid tree")
	}

	*s = result
	return nil
}
