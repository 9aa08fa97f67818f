package seed

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func randomChineseName(r *rand.Rand) string {
	surname := commonSurnames[r.Intn(len(commonSurnames))]
	nameLength := r.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[r.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// usernameFromChineseName 取每个字拼音的前若干个字母，再拼接 1~3 位数字
func usernameFromChineseName(r *rand.Rand, chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	var b strings.Builder

	for _, p := range pinyinArray {
		length := r.Intn(len(p)) + 1
		b.WriteString(p[:length])
	}

	digitsLength := r.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		b.WriteByte(digits[r.Intn(len(digits))])
	}

	return b.String()
}
