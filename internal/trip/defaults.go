package trip

import "github.com/mchou/campnook/internal/model"

// PresetGearCategories is the catalog shown when adding gear from the
// preset picker, keyed by catalog section.
var PresetGearCategories = map[string][]string{
	"帳篷寢具": {
		"睡帳", "天幕/客廳帳", "營釘 & 營鎚", "充氣床墊", "睡袋", "枕頭",
		"防潮地墊(內)", "地布(外)", "動力線 (延長線)", "打氣機", "營柱", "青蛙燈(營繩燈)",
		"門前踏墊", "掃把/畚箕", "枕頭套", "毛毯/被子", "調節片", "魚骨釘(棧板用)", "曬衣繩/夾",
	},
	"廚房烹飪": {
		"卡式爐/雙口爐", "瓦斯罐", "冰桶/行動冰箱", "套鍋組", "平底鍋/烤盤",
		"刀具 & 砧板", "餐具 (碗盤筷)", "瀝水籃", "洗碗精 & 菜瓜布", "儲水桶",
		"快煮壺", "咖啡沖泡組", "廚房剪刀", "湯勺/鍋鏟", "調味料組", "鋁箔紙/保鮮膜",
		"棉花糖", "廚房紙巾", "點火器/打火機", "隔熱手套", "開罐器", "削皮刀", "封口夾",
		"蛋盒", "垃圾袋架", "濾水網", "食物剪刀",
	},
	"桌椅家具": {
		"蛋捲桌", "露營椅", "行軍床", "置物架/掛架", "露營推車", "野餐墊",
		"垃圾架", "廚房桌/料理台", "裝備箱", "小板凳", "吊床", "戰術桌", "三層架",
	},
	"燈光溫控": {
		"主照明燈", "燈條/裝飾燈", "頭燈/手電筒", "煤油暖爐/電暖器", "電風扇/循環扇",
		"電熱毯", "暖暖包", "汽化燈", "燈架", "焚火台", "木柴/炭火",
		"煤油/瓦斯(備用)", "燈罩", "蠟燭/香氛",
	},
	"3C娛樂": {
		"平板電腦", "筆記型電腦", "投影機 & 布幕", "藍牙喇叭", "Switch/遊戲機",
		"桌遊/撲克牌", "麻將", "充電器 & 線材", "行動電源", "相機 & 腳架",
		"空拍機", "延長線 (3C用)", "電子書閱讀器", "羽球/飛盤",
		"藍牙麥克風", "吹泡泡機", "望遠鏡", "星空圖/星座盤",
	},
	"個人衛浴": {
		"換洗衣物", "毛巾/浴巾", "盥洗用具", "拖鞋", "吹風機",
		"衛生紙", "濕紙巾", "個人藥品", "防蚊液", "防曬乳", "乾洗手",
		"牙刷/牙膏", "洗髮精/沐浴乳", "化妝包/保養品", "鏡子", "髒衣袋", "生理用品", "耳塞/眼罩",
	},
	"工具雜項": {
		"垃圾袋", "急救包", "雨具/雨衣", "備用電池",
		"備用營繩", "多功能工具鉗", "修補包", "S掛勾/D扣", "工作手套",
		"彈力繩", "束帶", "膠帶", "剪刀/美工刀", "蚊香/蚊香架",
	},
}

// AvatarPool is the set of avatars offered when editing the roster.
var AvatarPool = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯",
	"🦁", "🐮", "🐷", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤", "🦆",
	"🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
	"🐌", "🐞", "🐜", "🐢", "🐍", "🦎", "🦖", "🐙", "🦑", "🦐",
	"🦞", "🦀", "🐡", "🐠", "🐟", "🐬", "🐳", "🦈", "🐊", "🐅",
	"🐆", "🦓", "🦍", "🦧", "🦣", "🐘", "🦛", "🦏", "🐪", "🐫",
	"🦒", "🦘", "🦬", "🐃", "🐂", "🐄", "🐎", "🐖", "🐑", "🐏",
	"🦙", "🐐", "🦌", "🐕", "🐩", "🦮", "🐈", "🐓", "🦃", "🦚",
	"🦜", "🦢", "🦩", "🕊️", "🐇", "🦝", "🦨", "🦡", "🦦", "🦥",
	"🐁", "🐀", "🐿️", "🦔", "🐾", "🐉", "🐲",
	"🌵", "🎄", "🌲", "🌳", "🌴", "🌱", "🌿", "☘️", "🍀", "🎍",
	"🎋", "🍃", "🍂", "🍁", "🍄", "🐚", "🪨", "🪵", "🔥", "💧",
	"☀️", "🌙", "⭐",
}

// DefaultData is the starter document used when neither the remote
// store nor the offline snapshot has anything to hydrate from.
func DefaultData() *model.AppData {
	dad := &model.IngredientOwner{ID: "user_dad", Name: "爸爸", Avatar: "🐻"}
	mom := &model.IngredientOwner{ID: "user_mom", Name: "媽媽", Avatar: "🐰"}

	return &model.AppData{
		Members: []model.Member{
			{ID: "user_dad", Name: "爸爸", Avatar: "🐻", IsAdmin: true},
			{ID: "user_mom", Name: "媽媽", Avatar: "🐰"},
			{ID: "user_sis", Name: "妹妹", Avatar: "🐱"},
			{ID: "user_bro", Name: "弟弟", Avatar: "🐶"},
		},
		GearList: []model.GearItem{
			{ID: "gear_tent", Name: "一房一廳帳", Category: model.GearPublic, Required: true},
			{ID: "gear_stove", Name: "雙口爐 (Iwatani)", Category: model.GearPublic, Required: true,
				Owner: &model.GearOwner{ID: "user_mom", Name: "媽媽"}},
			{ID: "gear_cooler", Name: "大冰桶 (50L)", Category: model.GearPublic, Required: true},
			{ID: "gear_chairs", Name: "露營椅 x4", Category: model.GearPublic, Required: true},
			{ID: "gear_sleeping_bag", Name: "睡袋 (個人)", Category: model.GearPersonal, Required: true},
			{ID: "gear_toiletries", Name: "盥洗用品", Category: model.GearPersonal, Required: true},
		},
		Ingredients: []model.Ingredient{
			{ID: "ing_beef", Name: "好市多牛肉片 (500g)", Owner: dad},
			{ID: "ing_onion", Name: "洋蔥 3 顆", Owner: mom},
			{ID: "ing_ramen", Name: "辛拉麵 2 包", Owner: dad},
			{ID: "ing_eggs", Name: "雞蛋 1 盒", Owner: mom},
			{ID: "ing_pork", Name: "五花肉條 (300g)", Owner: dad},
			{ID: "ing_soup", Name: "康寶濃湯包 (玉米)", Owner: mom},
			{ID: "ing_toast", Name: "全聯吐司 (半條)", Owner: dad},
			{ID: "ing_buns", Name: "好市多餐包 (1袋)", Owner: mom},
			{ID: "ing_beer", Name: "金牌啤酒 (6入)", Owner: dad},
			{ID: "ing_water", Name: "礦泉水 (2000ml x 2)", Owner: dad},
		},
		Bills: []model.Bill{
			{ID: "bill_deposit", PayerID: "user_dad", Item: "營位訂金", Amount: 2000, Date: "12/01"},
			{ID: "bill_groceries", PayerID: "user_mom", Item: "全聯採買食材", Amount: 1500, Date: "12/24"},
			{ID: "bill_beef", PayerID: "user_dad", Item: "好市多牛肉", Amount: 800, Date: "12/24"},
			{ID: "bill_drinks", PayerID: "user_dad", Item: "大人飲料(啤酒)", Amount: 300, Date: "12/25"},
		},
		TripInfo: model.TripInfo{
			Title:    "無人島移居計畫 (露營)",
			Date:     "12/25 - 12/27",
			Location: "新竹縣五峰鄉 (海拔 1200m)",
			Weather:  &model.Weather{Temp: 12, Condition: "有雨", Icon: "rain"},
		},
		CheckedDeparture: make(map[string]map[string]bool),
		CheckedReturn:    make(map[string]map[string]bool),
	}
}
