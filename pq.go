package dirsearch

import "container/heap"

// frontierItem is one queued directory. Seq records insertion order and
// breaks ties between equal F scores.
type frontierItem struct {
	Node         string
	GScore       float64
	FCost        float64
	Seq          uint64
	IndexInQueue int
}

type frontierQueue []*frontierItem

func (queue frontierQueue) Len() int { return len(queue) }
func (queue frontierQueue) Less(i, j int) bool {
	if queue[i].FCost != queue[j].FCost {
		return queue[i].FCost < queue[j].FCost
	}
	return queue[i].Seq < queue[j].Seq
}
func (queue frontierQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].IndexInQueue = i
	queue[j].IndexInQueue = j
}

func (queue *frontierQueue) Push(x any) {
	item := x.(*frontierItem)
	item.IndexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *frontierQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	item.IndexInQueue = -1
	*queue = oldQueue[:n-1]
	return item
}

// frontier keeps at most one entry per node: path -> (priority, insertion order).
type frontier struct {
	queue   frontierQueue
	entries map[string]*frontierItem
	nextSeq uint64
}

func newFrontier() *frontier {
	f := &frontier{entries: make(map[string]*frontierItem)}
	heap.Init(&f.queue)
	return f
}

func (f *frontier) Len() int { return f.queue.Len() }

// Upsert queues node, or re-prioritises it if it is already queued. Either
// way the entry takes a fresh insertion sequence.
func (f *frontier) Upsert(node string, g, fCost float64) {
	f.nextSeq++
	if item, ok := f.entries[node]; ok {
		item.GScore = g
		item.FCost = fCost
		item.Seq = f.nextSeq
		heap.Fix(&f.queue, item.IndexInQueue)
		return
	}
	item := &frontierItem{Node: node, GScore: g, FCost: fCost, Seq: f.nextSeq}
	heap.Push(&f.queue, item)
	f.entries[node] = item
}

// PopMin removes the lowest-F entry, oldest first among equals.
func (f *frontier) PopMin() (*frontierItem, bool) {
	if f.queue.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&f.queue).(*frontierItem)
	delete(f.entries, item.Node)
	return item, true
}

// Nodes lists the queued nodes in no particular order.
func (f *frontier) Nodes() []string {
	nodes := make([]string, 0, len(f.entries))
	for node := range f.entries {
		nodes = append(nodes, node)
	}
	return nodes
}
