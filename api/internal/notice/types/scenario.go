package types

// Scenario is a campus publishing context with the points a reviewer should
// watch for.
type Scenario struct {
	Name  string
	Focus string
}

var Scenarios = []Scenario{
	{Name: "住宿后勤", Focus: "宿舍管理、卫生检查、空调供暖、维修、用电、夜间管理等。重点关注：对学生的尊重、执行透明度、程序正义、‘一刀切’措辞、惩罚导向。"},
	{Name: "纪律处分", Focus: "违纪通报、处分决定、考试纪律、学术诚信等。重点关注：措辞是否羞辱化、标签化；是否给出申诉/流程；是否过度公开个人信息。"},
	{Name: "奖助评优", Focus: "奖学金、助学金、困难认定、评优评奖等。重点关注：公平性、指标解释、争议点、对困难群体的保护。"},
	{Name: "教学考试", Focus: "考试安排、补考缓考、课程调整、教学管理等。重点关注：可执行性、对特殊情况的照顾、信息完整性。"},
	{Name: "活动宣传", Focus: "讲座、团学活动、志愿服务、招生宣传等。重点关注：是否夸大、是否强制、是否引发对立（‘必须’‘不得’）。"},
	{Name: "安全应急", Focus: "突发事件通报、疫情防控、消防演练等。重点关注：恐慌扩散、信息透明、谣言空间、安抚与行动指引。"},
}

// LookupScenario returns the preset with the given name. Unknown labels come
// back with an empty focus and ok=false.
func LookupScenario(name string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{Name: name}, false
}
