package telegram

// channelIDOffset используется в "маркированных" ID каналов: -100…id.
const channelIDOffset = 1_000_000_000_000

// MarkedChatID переводит ID обычной группы в маркированный вид.
func MarkedChatID(id int64) int64 {
	return -id
}

// MarkedChannelID переводит ID канала или супергруппы в маркированный вид.
func MarkedChannelID(id int64) int64 {
	return -(channelIDOffset + id)
}
